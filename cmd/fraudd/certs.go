package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcpresentation "github.com/supplyshield/riskengine/internal/presentation/grpc"
	"github.com/supplyshield/riskengine/pkg/tlsutil"
)

func certsCommand() *cobra.Command {
	var (
		out      string
		hosts    []string
		validity time.Duration
	)
	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Issue a private CA and a gRPC server certificate",
		Long: "Write ca.pem, ca-key.pem, server.pem and server-key.pem into the output " +
			"directory. Point TLS_CERT_FILE and TLS_KEY_FILE at the server pair and give " +
			"clients ca.pem.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layout := tlsutil.Layout{Dir: out}
			if err := tlsutil.Issue(layout, tlsutil.IssueOptions{Hosts: hosts, Validity: validity}); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "TLS_CERT_FILE=%s\n", layout.ServerCert())
			fmt.Fprintf(w, "TLS_KEY_FILE=%s\n", layout.ServerKey())
			fmt.Fprintf(w, "CA=%s\n", layout.CACert())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "certs", "output directory")
	cmd.Flags().StringSliceVar(&hosts, "host", nil, "DNS name or IP the server certificate covers (repeatable, default localhost,127.0.0.1)")
	cmd.Flags().DurationVar(&validity, "validity", tlsutil.DefaultValidity, "server certificate lifetime")
	return cmd
}

type healthcheckOptions struct {
	addr       string
	caFile     string
	serverName string
	timeout    time.Duration
}

func healthcheckCommand(opts *globalOptions) *cobra.Command {
	var h healthcheckOptions
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Exit non-zero unless the gRPC API reports SERVING",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealthcheck(cmd.Context(), opts, h, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&h.addr, "addr", "", "gRPC address, defaults to the configured port on localhost")
	cmd.Flags().StringVar(&h.caFile, "ca", "", "CA certificate to trust; enables TLS")
	cmd.Flags().StringVar(&h.serverName, "server-name", "", "name to verify in the server certificate")
	cmd.Flags().DurationVar(&h.timeout, "timeout", 3*time.Second, "overall deadline")
	return cmd
}

func runHealthcheck(ctx context.Context, opts *globalOptions, h healthcheckOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, _, err := loadConfig(opts, stderr)
	if err != nil {
		return err
	}
	addr := h.addr
	if addr == "" {
		addr = "localhost" + cfg.GRPCAddress()
	}

	creds := insecure.NewCredentials()
	if h.caFile != "" || cfg.TLSCertFile != "" {
		var tlsCreds credentials.TransportCredentials
		if tlsCreds, err = tlsutil.ClientCredentials(h.caFile, h.serverName); err != nil {
			return err
		}
		creds = tlsCreds
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx,
		&healthpb.HealthCheckRequest{Service: grpcpresentation.ServiceName})
	if err != nil {
		return fmt.Errorf("health check against %s failed: %w", addr, err)
	}

	fmt.Fprintln(stdout, resp.GetStatus().String())
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%s is %s", grpcpresentation.ServiceName, resp.GetStatus())
	}
	return nil
}
