/*
 * MIT License
 *
 * Copyright (c) 2024 kvsock contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Command kvsockd is the reference binary for both sides of the protocol:
// with --server it runs socket/server against a handler.Table of built-in
// typed slots until a signal arrives; without it, it dials --node as a
// one-off client-probe and relays typed lines to/from the connection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eddyem/kvsock/cfgload"
	"github.com/eddyem/kvsock/console"
	"github.com/eddyem/kvsock/logger"
	"github.com/eddyem/kvsock/socket"
	"github.com/eddyem/kvsock/socket/address"
	"github.com/eddyem/kvsock/socket/client"
	"github.com/eddyem/kvsock/socket/config"
	"github.com/eddyem/kvsock/socket/handler"
	"github.com/eddyem/kvsock/socket/server"
	"github.com/eddyem/kvsock/socket/typed"
)

// exit codes per spec.md §6.
const (
	exitNormal = 0
	exitHelp   = -1
	exitAbort  = 9
)

type cliArgs struct {
	node       string
	isServer   bool
	isUnix     bool
	maxClients int
	verbose    bool
	logFile    string
	cfgFile    string
}

var args cliArgs

var rootCmd = &cobra.Command{
	Use:   "kvsockd",
	Short: "A key/value command server over a raw line protocol and a one-shot HTTP overlay",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(args)
	},
}

func init() {
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelp(cmd, args)
		os.Exit(exitHelp)
	})

	f := rootCmd.Flags()
	f.StringVar(&args.node, "node", "", `address to bind or dial: "port", ":port", "host:port", or a UNIX socket path`)
	f.BoolVarP(&args.isServer, "server", "s", false, "run as server instead of client-probe mode")
	f.BoolVarP(&args.isUnix, "unixsock", "u", false, "use a UNIX domain socket instead of INET")
	f.IntVar(&args.maxClients, "maxclients", config.DefaultMaxClients, "maximum concurrent clients (server mode only)")
	f.BoolVarP(&args.verbose, "verbose", "v", false, "enable debug-level logging")
	f.StringVar(&args.logFile, "logfile", "", "append logs to this file in addition to stdout")
	f.StringVar(&args.cfgFile, "config", "", "optional YAML/TOML config file, equivalent to a second flag pass")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitAbort)
	}
	os.Exit(exitNormal)
}

func run(a cliArgs) error {
	if a.cfgFile != "" {
		f, _, err := cfgload.Load(a.cfgFile, rootCmd.Flags())
		if err != nil {
			return err
		}
		if !rootCmd.Flags().Changed("node") && f.Node != "" {
			a.node = f.Node
		}
		if !rootCmd.Flags().Changed("server") && f.Server {
			a.isServer = f.Server
		}
		if !rootCmd.Flags().Changed("unixsock") && f.UnixSock {
			a.isUnix = f.UnixSock
		}
		if !rootCmd.Flags().Changed("maxclients") && f.MaxClients != 0 {
			a.maxClients = f.MaxClients
		}
		if !rootCmd.Flags().Changed("verbose") && f.Verbose {
			a.verbose = f.Verbose
		}
		if !rootCmd.Flags().Changed("logfile") && f.LogFile != "" {
			a.logFile = f.LogFile
		}
	}

	addr, err := resolveAddress(a)
	if err != nil {
		return err
	}

	lvl := logger.InfoLevel
	if a.verbose {
		lvl = logger.DebugLevel
	}
	log, err := logger.New(lvl, a.logFile)
	if err != nil {
		return err
	}
	defer log.Close()

	if a.isServer {
		return runServer(addr, a.maxClients, log)
	}
	return runClientProbe(addr, log)
}

func resolveAddress(a cliArgs) (address.Address, error) {
	if a.isUnix {
		return address.ParseUnix(a.node)
	}
	return address.ParseInet(a.node)
}

// runServer runs the listening side until a signal arrives, per spec.md §6.
func runServer(addr address.Address, maxClients int, log *logger.Logger) error {
	table := buildTable()

	srv, err := server.New(nil, table, config.Config{
		Addr:       addr,
		MaxClients: maxClients,
		Log:        log,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(ctx) }()

	select {
	case s := <-sig:
		log.Info("shutting down: %v", nil, s)
		cancel()
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// runClientProbe dials addr and relays typed lines read from stdin to the
// connection, printing whatever the server sends back, until Ctrl+D or a
// disconnect. This is the Go analogue of the original's runclient.
func runClientProbe(addr address.Address, log *logger.Logger) error {
	c, err := client.Dial(addr, socket.DefaultBufferSize, log)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Println("connected; type a command and press Enter, Ctrl+D to quit")
	for c.IsConnected() {
		line, err := console.PromptString("send")
		if err != nil {
			break
		}
		if !c.IsConnected() {
			break
		}
		if _, err := c.SendStr(line + "\n"); err != nil {
			return err
		}
		printResponses(c)
	}
	fmt.Println("disconnected")
	return nil
}

// printResponses drains and prints whatever the server has sent back within
// a short settling window, mirroring the original's 0.3s readline poll.
func printResponses(c *client.Client) {
	buf := make([]byte, 512)
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		n, err := c.Read(buf)
		if n > 0 {
			fmt.Printf("server > %s", buf[:n])
			deadline = time.Now().Add(300 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// buildTable registers the built-in typed slots spec.md §4.6 names, plus
// help. Real deployments register their own domain keys against the same
// table before calling server.New.
func buildTable() *handler.Table {
	t := &handler.Table{}

	count := typed.NewIntSlot(0)
	t.Add("count", "integer counter", count.Handler())

	ratio := typed.NewDoubleSlot(0)
	t.Add("ratio", "floating-point ratio", ratio.Handler())

	name := typed.NewStringSlot("")
	t.Add("name", "short text value", name.Handler())

	return t
}
