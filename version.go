package main

const (
	name    = "repquery"
	version = "v0.1.0"
)
