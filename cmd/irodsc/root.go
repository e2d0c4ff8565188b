/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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
 *
 *
 */

package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	account "github.com/nabbar/irodsgo/account"
	libcfg "github.com/nabbar/irodsgo/config"
	conn "github.com/nabbar/irodsgo/conn"
	libfs "github.com/nabbar/irodsgo/fs"
	liblog "github.com/nabbar/irodsgo/logger"
	loglvl "github.com/nabbar/irodsgo/logger/level"
	transfer "github.com/nabbar/irodsgo/transfer"

	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
	libterm "golang.org/x/term"
)

// flags holds the persistent connection flags, bound to viper so every
// value can also come from IRODSGO_* environment variables.
var flags = spfvpr.New()

// log is the CLI's operational logger, writing to stderr so stdout stays
// free for command output (listings, progress bars). Its level is set
// from the --log-level flag once the root command runs.
var log = liblog.New(context.Background())

func rootCmd() *spfcbr.Command {
	root := &spfcbr.Command{
		Use:   "irodsc",
		Short: "irodsc drives an iRODS server over the irodsgo wire client",
	}

	pf := root.PersistentFlags()
	pf.String("host", "", "iRODS catalog provider host")
	pf.Int("port", 1247, "iRODS server port")
	pf.String("zone", "", "iRODS zone")
	pf.String("user", "", "iRODS user name")
	pf.String("password", "", "iRODS password (prompted if empty and not anonymous)")
	pf.String("proxy-user", "", "proxy user, defaults to user")
	pf.String("proxy-zone", "", "proxy zone, defaults to zone")
	pf.String("resource", "", "default resource")
	pf.String("scheme", "native", "auth scheme: native, pam, gsi, kerberos, anonymous")
	pf.String("pipeline-config", "", "path to a pipeline config file (yaml/json/toml); built-in defaults otherwise")
	pf.String("log-level", "info", "operational log level: panic, fatal, error, warn, info, debug")

	_ = flags.BindPFlags(pf)
	flags.SetEnvPrefix("IRODSGO")
	flags.AutomaticEnv()

	root.PersistentPreRun = func(cmd *spfcbr.Command, args []string) {
		log.SetLevel(loglvl.Parse(flags.GetString("log-level")))
	}

	root.AddCommand(lsCmd(), putCmd(), getCmd(), replicateCmd(), mvCmd(), rmCmd(), connectCmd())
	return root
}

// session bundles one connection handle, its orchestrator, and teardown.
type session struct {
	handle *conn.Handle
	orch   *transfer.Orchestrator
	cfg    *account.PipelineConfig
	home   string
}

func (s *session) close(ctx context.Context) {
	if err := s.handle.Disconnect(ctx); err != nil {
		log.Warning("disconnect failed", nil, err)
	} else {
		log.Info("disconnected", nil)
	}
}

// path resolves a command-line argument (absolute or home-relative) to a
// canonical fs.Path rooted at the connected account's home collection.
func (s *session) path(raw string) libfs.Path {
	return libfs.NewPath(raw, s.home)
}

// entity builds an fs.Entity bound to this session's connection, for the
// commands (ls, rm) that need direct fs operations rather than transfer's
// higher-level put/get/replicate/copy/move.
func (s *session) entity(p libfs.Path) *libfs.Entity {
	return libfs.NewEntity(s.handle, p, nil)
}

// dial builds an Account from the persistent flags and opens a connection,
// prompting for a password on the terminal when one is required but unset.
func dial(ctx context.Context) (*session, error) {
	scheme := account.AuthScheme(flags.GetString("scheme"))

	pw := flags.GetString("password")
	if pw == "" && scheme != account.SchemeAnonymous {
		fmt.Fprint(os.Stderr, "iRODS password: ")
		b, err := libterm.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		pw = string(b)
	}

	acc := account.Account{
		Host:            flags.GetString("host"),
		Port:            flags.GetInt("port"),
		Zone:            flags.GetString("zone"),
		User:            flags.GetString("user"),
		Password:        pw,
		DefaultResource: flags.GetString("resource"),
		Scheme:          scheme,
		ProxyUser:       flags.GetString("proxy-user"),
		ProxyZone:       flags.GetString("proxy-zone"),
	}
	if acc.ProxyUser == "" {
		acc.ProxyUser = acc.User
	}
	if acc.ProxyZone == "" {
		acc.ProxyZone = acc.Zone
	}

	if e := acc.Validate(); e != nil {
		return nil, e
	}

	var cfg *account.PipelineConfig
	if p := flags.GetString("pipeline-config"); p != "" {
		c, e := libcfg.Load(p)
		if e != nil {
			return nil, e
		}
		cfg = c
	} else {
		cfg = libcfg.Default()
	}

	log.Debug("dialing", nil, "host", acc.Host, "port", acc.Port, "zone", acc.Zone, "scheme", acc.Scheme)

	h, err := conn.Connect(ctx, acc, cfg)
	if err != nil {
		log.Error("connect failed", nil, err)
		return nil, err
	}

	var sk transfer.SessionKey
	if sess := h.Session(); sess != nil {
		sk = sess
	}

	log.Info("connected", nil, "user", acc.User, "zone", acc.Zone)

	orch := transfer.NewOrchestrator(h, cfg, sk)
	return &session{handle: h, orch: orch, cfg: cfg, home: acc.Home()}, nil
}
