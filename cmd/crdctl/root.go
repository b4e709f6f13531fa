package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/simplekube/crdkit/pkg/crd"
)

type runFlags struct {
	arguments     string
	argumentsFile string
	context       string
	fieldManager  string
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "crdctl",
		Short:         "Invoke custom object chaos activities against a Kubernetes cluster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	fs := flag.NewFlagSet("crdctl", flag.ContinueOnError)
	klog.InitFlags(fs)
	root.PersistentFlags().AddGoFlagSet(fs)

	// registered by controller-runtime's config package
	if kubeconfig := flag.CommandLine.Lookup("kubeconfig"); kubeconfig != nil {
		root.PersistentFlags().AddGoFlag(kubeconfig)
	}

	registrar := crd.NewDefaultRegistrar()
	root.AddCommand(newListCmd(out, registrar), newRunCmd(out, registrar))
	return root
}

func newListCmd(out io.Writer, registrar crd.Registrar) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tDESCRIPTION")
			for _, a := range registrar.GetActivities() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, a.Type, a.Description)
			}
			return w.Flush()
		},
	}
}

func newRunCmd(out io.Writer, registrar crd.Registrar) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run <activity>",
		Short: "Run an activity with arguments given as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			activity := registrar.Get(crd.Key(args[0]))
			if activity == nil {
				return errors.Errorf("unknown activity %q", args[0])
			}
			arguments, err := loadArguments(flags)
			if err != nil {
				return err
			}

			options := []crd.RunOption{crd.WithSecrets(secretsFromFlags(flags))}
			if flags.fieldManager != "" {
				options = append(options, crd.WithServerSideApply(flags.fieldManager))
			}
			metrics, err := crd.NewMetrics(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			options = append(options, crd.WithMetrics(metrics))

			got, err := activity.Run(context.Background(), arguments, options...)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(got)
		},
	}
	cmd.Flags().StringVar(&flags.arguments, "arguments", "", "activity arguments as a JSON or YAML object")
	cmd.Flags().StringVar(&flags.argumentsFile, "arguments-file", "", "path to a file holding the activity arguments")
	cmd.Flags().StringVar(&flags.context, "kubeconfig-context", "", "kubeconfig context to use")
	cmd.Flags().StringVar(&flags.fieldManager, "server-side-apply", "", "send patches as server side apply on behalf of this field manager")
	return cmd
}

func loadArguments(flags runFlags) (crd.Arguments, error) {
	raw := []byte(flags.arguments)
	if flags.argumentsFile != "" {
		if flags.arguments != "" {
			return nil, errors.New("--arguments and --arguments-file are mutually exclusive")
		}
		var err error
		raw, err = os.ReadFile(flags.argumentsFile)
		if err != nil {
			return nil, errors.Wrap(err, "read arguments file")
		}
	}

	arguments := crd.Arguments{}
	if len(raw) == 0 {
		return arguments, nil
	}
	if err := yaml.Unmarshal(raw, &arguments); err != nil {
		return nil, errors.Wrap(err, "decode arguments")
	}
	return arguments, nil
}

func secretsFromFlags(flags runFlags) crd.Secrets {
	secrets := crd.Secrets{}
	if flags.context != "" {
		secrets[crd.KeyContext] = flags.context
	}
	return secrets
}
