package filesig

// Detector examines a ByteSource and reports the formats it recognizes.
//
// Detectors must be stateless: the same detector value is shared by every
// Identify call, possibly from several goroutines at once. A detector that
// recognizes nothing returns an empty slice and a nil error; an error is
// reserved for failures of the source itself.
type Detector interface {
	// Name identifies the detector. Registries use it to deduplicate
	// registrations, so it must be unique per detector kind.
	Name() string

	// Detect returns every format the detector recognizes in src.
	Detect(src ByteSource) ([]Format, error)
}

// Windowed is implemented by detectors that only read a bounded head and
// tail of the content. Identification results for such detectors can be
// cached by a fingerprint of those windows.
type Windowed interface {
	// Extent returns how many bytes from the start and from the end of the
	// content the detector can read.
	Extent() (head, tail int64)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc struct {
	ID string
	Fn func(src ByteSource) ([]Format, error)
}

// Name returns the ID of the detector.
func (d DetectorFunc) Name() string { return d.ID }

// Detect calls Fn.
func (d DetectorFunc) Detect(src ByteSource) ([]Format, error) {
	return d.Fn(src)
}

// CatalogDetectorName is the registered name of the signature detector.
const CatalogDetectorName = "signatures"

// CatalogDetector evaluates a signature catalog. Every satisfied rule
// yields a format; the detector does not disambiguate between them.
type CatalogDetector struct {
	catalog Catalog
	name    string
}

// NewCatalogDetector creates a detector over catalog. A nil catalog
// selects DefaultCatalog.
func NewCatalogDetector(catalog Catalog) *CatalogDetector {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &CatalogDetector{catalog: catalog, name: CatalogDetectorName}
}

// Named returns a copy of the detector registered under a different name,
// for running a second catalog next to the built-in one.
func (d *CatalogDetector) Named(name string) *CatalogDetector {
	return &CatalogDetector{catalog: d.catalog, name: name}
}

// Name returns the detector name.
func (d *CatalogDetector) Name() string { return d.name }

// Catalog returns the rules evaluated by the detector.
func (d *CatalogDetector) Catalog() Catalog { return d.catalog }

// Detect collects the formats of every satisfied rule, in catalog order.
func (d *CatalogDetector) Detect(src ByteSource) ([]Format, error) {
	var formats []Format
	for f, err := range d.catalog.Evaluate(src) {
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// Extent returns the catalog's read windows.
func (d *CatalogDetector) Extent() (head, tail int64) {
	return d.catalog.Extent()
}

// isNilDetector reports whether d is nil, a nil pointer to one of the
// detectors of this package, or a DetectorFunc without a function.
func isNilDetector(d Detector) bool {
	switch v := d.(type) {
	case nil:
		return true
	case *CatalogDetector:
		return v == nil
	case *TextDetector:
		return v == nil
	case DetectorFunc:
		return v.Fn == nil
	case *DetectorFunc:
		return v == nil || v.Fn == nil
	}
	return false
}

var (
	_ Detector = (*CatalogDetector)(nil)
	_ Windowed = (*CatalogDetector)(nil)
	_ Detector = DetectorFunc{}
)
