package main

import (
	"os"

	"k8s.io/klog/v2"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		klog.ErrorS(err, "Command failed")
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}
