/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package api

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"strconv"
	"strings"
)

// EnumValue is one documented value of a string enum.
type EnumValue struct {
	Value string
	Doc   string
}

// ParseEnums reads the enum definitions of the Go sources in dir, by type name, in declaration order.
// Enum values must be declared as `Constant Type = "value" // doc`.
func ParseEnums(dir string) (map[string][]EnumValue, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	enums := map[string][]EnumValue{}
	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				gen, ok := decl.(*ast.GenDecl)
				if !ok || gen.Tok != token.CONST {
					continue
				}
				for _, spec := range gen.Specs {
					addEnumValue(enums, spec.(*ast.ValueSpec))
				}
			}
		}
	}
	return enums, nil
}

func addEnumValue(enums map[string][]EnumValue, spec *ast.ValueSpec) {
	typ, ok := spec.Type.(*ast.Ident)
	if !ok || len(spec.Values) != 1 {
		return
	}
	lit, ok := spec.Values[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return
	}
	var doc string
	if spec.Comment != nil {
		doc = strings.TrimSpace(spec.Comment.Text())
	}
	enums[typ.Name] = append(enums[typ.Name], EnumValue{Value: value, Doc: doc})
}
