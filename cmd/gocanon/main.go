package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/2x3systems/gocanon/canon"
	"github.com/2x3systems/gocanon/libcanon"
	"github.com/plan-systems/klog"
)

func main() {
	klog.InitFlags(nil)
	flag.Set("logtostderr", "true")
	flag.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	expr := flag.String("expr", "", "graph expression to canonize, e.g. \"1-2-3-1, 4:2\"")
	g6 := flag.String("g6", "", "graph6 string to canonize")
	flag.Parse()

	var err error
	switch {
	case len(*expr) > 0:
		err = printCanonic(libcanon.NewGraphFromString(*expr))
	case len(*g6) > 0:
		err = printCanonic(libcanon.NewGraphFromGraph6(*g6))
	default:
		err = go_gpython(flag.Arg(0))
	}

	if err != nil {
		klog.Errorf("gocanon: %v", err)
	}
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func printCanonic(X *libcanon.Graph, err error) error {
	if err != nil {
		return err
	}
	defer X.Reclaim()

	if err = X.Canonize(); err != nil {
		return err
	}

	opts := canon.DefaultPrintOpts
	opts.Graph6 = X.GetInfo().NumLoops == 0
	X.WriteAsString(os.Stdout, opts)
	fmt.Fprintf(os.Stdout, ",|Aut|=%s\n", X.Stats().GroupSizeString())
	return nil
}
