// Package filesig identifies the format of binary content by its leading and
// trailing bytes instead of its file name.
//
// Every detector reads through a [ByteSource], a bounded random-access view
// over a buffer, a seekable stream or a file. A [Registry] holds an ordered
// list of [Detector] values; identifying content runs all of them and
// returns every recognized [Format], most confident first.
//
// # Basic Usage
//
//	formats, err := filesig.IdentifyFile("upload.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if best, ok := filesig.Best(formats); ok {
//	    fmt.Println(best) // e.g. "image/png"
//	}
//
// Other entry points accept bytes, seekable streams and plain readers:
//
//	formats, err := filesig.Identify(data)
//	formats, err := filesig.IdentifyStream(file)
//	formats, err := filesig.IdentifyReader(resp.Body)
//
// An empty result is not an error: it means nothing was recognized.
//
// # Confidence
//
// Confidence is the number of bytes that took part in a match. It only
// orders results; it is not a probability. Content often satisfies several
// rules at once (a ZIP header is also the start of every JAR and DOCX), and
// all of them are reported. Equal confidences keep registration order of
// the detectors, then the order each detector reported them, so results are
// reproducible.
//
// # Built-in Detectors
//
//   - Signature catalog: a static table of byte patterns at fixed offsets or
//     anchored from the end of content, with wildcard and byte-set matchers.
//   - Text: byte order marks, then decode/re-encode trials over UTF-8,
//     Windows-1252, ISO-8859-1, UTF-16 and UTF-32. The encoding is reported
//     as the format version, e.g. "text/xml/utf-8".
//
// # Custom Detectors
//
//	registry := filesig.DefaultRegistry()
//	registry.MustRegister(filesig.DetectorFunc{
//	    ID: "sqlite",
//	    Fn: func(src filesig.ByteSource) ([]filesig.Format, error) {
//	        ok, err := filesig.Match(src, 0, filesig.Text("SQLite format 3\x00"))
//	        if err != nil || !ok {
//	            return nil, err
//	        }
//	        return []filesig.Format{filesig.MustFormat("database", "sqlite", "3", 16, "application/vnd.sqlite3", ".db")}, nil
//	    },
//	})
//	id := filesig.New(filesig.WithRegistry(registry))
//
// Detectors must not keep state between calls; one value serves every
// goroutine.
//
// # Caching
//
// When every registered detector reports a bounded read window ([Windowed]),
// an [Identifier] can cache results by a fingerprint of those windows:
//
//	id := filesig.New(filesig.WithCache(filesig.NewMemoryCache(), 5*time.Minute))
//
// # Configuration
//
// [GetConfig] loads BEAVER_FILESIG_* environment variables and
// [NewIdentifierFromConfig] turns them into an Identifier.
package filesig
