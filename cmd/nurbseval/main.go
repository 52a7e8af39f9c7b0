// Command nurbseval loads a NURBS surface definition and evaluates it: single
// points with derivatives and normals, sample grids, or an STL tessellation.
package main

import (
	"flag"
	"os"

	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(flag.CommandLine)

	cmd := newRootCommand()
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	if err := cmd.Execute(); err != nil {
		klog.ErrorS(err, "nurbseval failed", "command", os.Args[1:])
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}
