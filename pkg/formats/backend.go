package formats

// Backend decodes .osu documents. Implementations must be safe for
// concurrent use and must not keep state between calls.
type Backend interface {
	Parse(data []byte) *Beatmap
	ParseInfo(filename string, data []byte) Info
}

// TextBackend is the line-oriented Backend of this package.
type TextBackend struct {
	Options Options
}

// Parse implements Backend.
func (tb TextBackend) Parse(data []byte) *Beatmap {
	return ParseOSUWithOptions(data, tb.Options)
}

// ParseInfo implements Backend.
func (TextBackend) ParseInfo(filename string, data []byte) Info {
	return ParseInfo(filename, data)
}
