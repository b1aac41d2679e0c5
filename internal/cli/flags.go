package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/faces-detector/internal/detection"
)

// addClassifierFlags registers --<prefix>-model, --<prefix>-scale and
// --<prefix>-neighbors.
func addClassifierFlags(flags *pflag.FlagSet, prefix, kind, defaultModel string) {
	flags.String(prefix+"-model", defaultModel, fmt.Sprintf("Cascade model file for %s", kind))
	flags.Float64(prefix+"-scale", detection.DefaultScaleFactor, fmt.Sprintf("Scale factor for %s, greater than 1", kind))
	flags.Int(prefix+"-neighbors", detection.DefaultMinNeighbors, fmt.Sprintf("Min neighbors for %s", kind))
}

// applyClassifierFlags copies explicitly set classifier flags into cc.
func applyClassifierFlags(cmd *cobra.Command, prefix string, cc *detection.ClassifierConfig) {
	if cmd.Flags().Changed(prefix + "-model") {
		cc.ModelPath = mustGetString(cmd, prefix+"-model")
	}
	if cmd.Flags().Changed(prefix + "-scale") {
		cc.ScaleFactor = mustGetFloat64(cmd, prefix+"-scale")
	}
	if cmd.Flags().Changed(prefix + "-neighbors") {
		cc.MinNeighbors = mustGetInt(cmd, prefix+"-neighbors")
	}
}

// mustGetBool gets a bool flag value or panics if the flag doesn't exist.
// This is appropriate for flags defined in init() - errors indicate programming bugs.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetInt gets an int flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetString gets a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetFloat64 gets a float64 flag value or panics if the flag doesn't exist.
func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	val, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}
