package filesig_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobeaver/filesig"
)

func ExampleIdentify() {
	data := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

	formats, err := filesig.Identify(data)
	if err != nil {
		panic(err)
	}
	best, _ := filesig.Best(formats)
	fmt.Println(best, best.Confidence(), best.MIMEType())
	// Output:
	// image/png 8 image/png
}

func ExampleIdentifyReader() {
	formats, _ := filesig.IdentifyReader(strings.NewReader(`<?xml version="1.0"?><feed/>`))
	best, _ := filesig.Best(formats)
	fmt.Println(best)
	// Output:
	// text/xml/utf-8
}

func ExampleMerge() {
	// A zip local file header followed by an end of central directory
	// record satisfies two zip rules.
	data := make([]byte, 64)
	copy(data, "PK\x03\x04")
	copy(data[len(data)-22:], "PK\x05\x06")

	formats, _ := filesig.New(filesig.WithRegistry(filesig.SignatureOnlyRegistry())).Identify(data)
	for _, f := range formats {
		fmt.Println(f, f.Confidence())
	}
	for _, f := range filesig.Merge(formats) {
		fmt.Println("merged:", f, f.Confidence())
	}
	// Output:
	// archive/zip 8
	// archive/zip 4
	// merged: archive/zip 12
}

func ExampleRegistry_MustRegister() {
	registry := filesig.DefaultRegistry()
	registry.MustRegister(filesig.DetectorFunc{
		ID: "sqlite",
		Fn: func(src filesig.ByteSource) ([]filesig.Format, error) {
			ok, err := filesig.Match(src, 0, filesig.Text("SQLite format 3\x00"))
			if err != nil || !ok {
				return nil, err
			}
			return []filesig.Format{
				filesig.MustFormat("database", "sqlite", "3", 16, "application/vnd.sqlite3", ".db"),
			}, nil
		},
	})

	data := append([]byte("SQLite format 3\x00"), 0x10, 0x00, 0x01, 0x01)
	formats, _ := filesig.New(filesig.WithRegistry(registry)).Identify(data)
	best, _ := filesig.Best(formats)
	fmt.Println(best, filesig.DefaultExtension(best))
	// Output:
	// database/sqlite/3 .db
}

func ExampleWithCache() {
	cache := filesig.NewMemoryCache()
	id := filesig.New(filesig.WithCache(cache, 5*time.Minute))

	data := []byte("GIF89a\x01\x00\x01\x00")
	for range 3 {
		_, _ = id.Identify(data)
	}
	stats := cache.Stats()
	fmt.Println(stats.Hits, stats.Misses)
	// Output:
	// 2 1
}
