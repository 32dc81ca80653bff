package main

//go:generate go run github.com/dmarkham/enumer -type Format -trimprefix Format -transform lower -output format.gen.go

// Format is the output format for inspection results.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)
