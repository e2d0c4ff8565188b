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

// Package account holds the immutable identity/target credentials used to
// open an iRODS connection, plus the pipeline tuning snapshot captured at
// connection birth and the process-wide session registry that hands out
// connection handles per account.
package account

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"
	errors "github.com/nabbar/irodsgo/errors"
)

// AuthScheme selects the authentication negotiation dispatched by C3.
type AuthScheme string

const (
	SchemeNative    AuthScheme = "native"
	SchemePAM       AuthScheme = "pam"
	SchemeGSI       AuthScheme = "gsi"
	SchemeKerberos  AuthScheme = "kerberos"
	SchemeAnonymous AuthScheme = "anonymous"
)

// Key is the comparable, hashable identity of an Account: host, port, zone,
// user, and proxy-user, per the equality rule of the data model.
type Key struct {
	Host      string
	Port      int
	Zone      string
	User      string
	ProxyUser string
}

// Account is the immutable credential and target value handed to the
// session registry to acquire a connection handle.
type Account struct {
	Host            string     `mapstructure:"host" json:"host" yaml:"host" toml:"host" validate:"required,hostname_rfc1123"`
	Port            int        `mapstructure:"port" json:"port" yaml:"port" toml:"port" validate:"required,min=1,max=65535"`
	Zone            string     `mapstructure:"zone" json:"zone" yaml:"zone" toml:"zone" validate:"required"`
	User            string     `mapstructure:"user" json:"user" yaml:"user" toml:"user" validate:"required"`
	Password        string     `mapstructure:"password" json:"password" yaml:"password" toml:"password"`
	HomeDir         string     `mapstructure:"home_dir" json:"home_dir" yaml:"home_dir" toml:"home_dir"`
	DefaultResource string     `mapstructure:"default_resource" json:"default_resource" yaml:"default_resource" toml:"default_resource"`
	Scheme          AuthScheme `mapstructure:"scheme" json:"scheme" yaml:"scheme" toml:"scheme" validate:"required,oneof=native pam gsi kerberos anonymous"`
	ProxyUser       string     `mapstructure:"proxy_user" json:"proxy_user" yaml:"proxy_user" toml:"proxy_user"`
	ProxyZone       string     `mapstructure:"proxy_zone" json:"proxy_zone" yaml:"proxy_zone" toml:"proxy_zone"`
}

// Key returns the comparable identity used for equality and as a map key;
// the proxy user is part of it per spec.
func (a Account) Key() Key {
	return Key{Host: a.Host, Port: a.Port, Zone: a.Zone, User: a.User, ProxyUser: a.ProxyUser}
}

// Home returns the account's configured home directory, defaulting to the
// conventional /<zone>/home/<user> when unset.
func (a Account) Home() string {
	if a.HomeDir != "" {
		return a.HomeDir
	}
	return fmt.Sprintf("/%s/home/%s", a.Zone, a.User)
}

// Validate checks struct tag constraints via go-playground/validator.
func (a Account) Validate() errors.Error {
	e := ErrorValidatorError.Error(nil)

	if err := libval.New().Struct(a); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}

		for _, er := range err.(libval.ValidationErrors) {
			e.Add(fmt.Errorf("account field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	if !e.HasParent() {
		return nil
	}
	return e
}
