/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// ErrInvalidDesign is returned when a document does not match the design schema.
var ErrInvalidDesign = errors.New("storage: invalid design document")

//go:embed design.schema.json
var designSchema []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// Schema returns the embedded JSON schema for design documents.
func Schema() []byte { return designSchema }

// Validate checks raw document bytes against the design schema.
func Validate(data []byte) error {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(designSchema))
	})
	if schemaErr != nil {
		return fmt.Errorf("load design schema: %w", schemaErr)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDesign, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDesign, strings.Join(msgs, "; "))
	}
	return nil
}
