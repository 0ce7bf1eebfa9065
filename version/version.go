package version

import (
	"flag"
	"fmt"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/option"
	"io"
	"os"
	"runtime"
)

// Set with -ldflags "-X github.com/simple-als/wdals/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
)

type versionOption struct {
	flag *bool
	out  io.Writer
}

func (*versionOption) Name() string {
	return "version"
}

func (*versionOption) Priority() int {
	return 10
}

func (c *versionOption) Handle() error {
	if *c.flag {
		fmt.Fprintln(c.out, "wdals", Version)
		fmt.Fprintln(c.out, "Go Version:", runtime.Version())
		fmt.Fprintln(c.out, "OS/Arch:", runtime.GOOS+"/"+runtime.GOARCH)
		fmt.Fprintln(c.out, "Git Commit:", Commit)
		return nil
	}
	return common.NewError("not set")
}

func init() {
	option.RegisterHandler(&versionOption{
		flag: flag.Bool("version", false, "Display version and build info"),
		out:  os.Stdout,
	})
}
