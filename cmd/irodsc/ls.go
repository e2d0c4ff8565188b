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
	"fmt"

	spfcbr "github.com/spf13/cobra"
)

func lsCmd() *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "ls [path]",
		Short: "List a collection's direct children",
		Args:  spfcbr.MaximumNArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			ctx := cmd.Context()
			s, err := dial(ctx)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			root := s.path(target)

			children, lerr := s.entity(root).ListChildren(ctx)
			if lerr != nil {
				return lerr
			}

			for _, c := range children {
				kind := "file"
				if isDir, derr := c.IsDir(ctx); derr == nil && isDir {
					kind = "coll"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s\n", kind, c.Path().String())
			}
			return nil
		},
	}
}
