package assets

import _ "embed"

//go:embed banner.txt
var Banner string

//go:embed help.txt
var Help string
