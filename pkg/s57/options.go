package s57

// parseConfig holds the resolved set of ParseOptions; defaultParseConfig
// supplies the starting values before any ParseOption is applied.
type parseConfig struct {
	validateGeometry     bool
	checkSelfIntersection bool
	objectClassFilter     map[string]bool
	strictMode            bool
	warningThreshold      int
}

func defaultParseConfig() parseConfig {
	return parseConfig{validateGeometry: true}
}

// ParseOption configures a Parse call via the functional-options pattern.
type ParseOption func(*parseConfig)

// WithValidateGeometry toggles geometry validation. Validation consists of
// the self-intersection pass, which additionally needs
// WithSelfIntersectionCheck; with validation off that pass never runs.
func WithValidateGeometry(validate bool) ParseOption {
	return func(c *parseConfig) { c.validateGeometry = validate }
}

// WithSelfIntersectionCheck enables the O(n^2) self-intersection pass on
// every assembled ring. It takes effect only while geometry validation is
// on (the default).
func WithSelfIntersectionCheck(check bool) ParseOption {
	return func(c *parseConfig) { c.checkSelfIntersection = check }
}

// WithObjectClassFilter restricts parsed features to the given acronyms
// (case-insensitive). An empty filter parses every feature.
func WithObjectClassFilter(acronyms []string) ParseOption {
	return func(c *parseConfig) {
		if len(acronyms) == 0 {
			c.objectClassFilter = nil
			return
		}
		c.objectClassFilter = make(map[string]bool, len(acronyms))
		for _, a := range acronyms {
			c.objectClassFilter[upperTrim(a)] = true
		}
	}
}

// WithStrictMode promotes any warning of severity >= warning into a
// fatal error, aborting the parse.
func WithStrictMode(strict bool) ParseOption {
	return func(c *parseConfig) { c.strictMode = strict }
}

// WithWarningThreshold sets the count above which the resulting warning
// summary reports IsThresholdExceeded. Zero (the default) means
// unlimited.
func WithWarningThreshold(threshold int) ParseOption {
	return func(c *parseConfig) { c.warningThreshold = threshold }
}

func upperTrim(s string) string {
	b := []byte(s)
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
