package main

import (
	"github.com/aglmct/tracker/tools/linters/noclock"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(noclock.Analyzer)
}
