// Package formats provides parsers for osu! file formats.
//
// A .osu beatmap is read by ParseOSU into a Beatmap. ParseInfo reads only
// the header sections and ParseAssets only the referenced media files.
package formats

// Note: hit object decoding is implemented in osu_hitobject.go
// Note: timing point resolution is implemented in osu_timing.go
// Note: slider paths are computed by package curve
