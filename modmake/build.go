package main

import (
	. "github.com/saylorsolutions/modmake"
)

const (
	saltyboxVersion = "1.0.0"
)

func main() {
	b := NewBuild()
	b.Generate().DependsOnRunner("tidy", "", Go().ModTidy())
	b.Test().Does(Go().TestAll())

	saltybox := NewAppBuild("saltybox", "cmd/saltybox", saltyboxVersion)
	saltybox.Build(releaseBuild(saltyboxVersion))
	saltybox.Variant("windows", "amd64")
	saltybox.Variant("linux", "amd64")
	saltybox.Variant("linux", "arm64")
	saltybox.Variant("darwin", "amd64")
	saltybox.Variant("darwin", "arm64")
	b.ImportApp(saltybox)

	// The vector tool only runs on development machines.
	golden := NewAppBuild("golden", "cmd/golden", saltyboxVersion)
	golden.Build(releaseBuild(saltyboxVersion))
	golden.Variant("linux", "amd64")
	golden.Variant("darwin", "arm64")
	b.ImportApp(golden)

	b.Execute()
}

func releaseBuild(version string) func(gb *GoBuild) {
	return func(gb *GoBuild) {
		gb.
			StripDebugSymbols().
			SetVariable("main", "version", version).
			CgoEnabled(false)
	}
}
