/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

// Package ion implements the Ion 1.0 binary wire format: a self-describing,
// hierarchical, typed value tree, the local/shared symbol-table protocol
// that makes a stream self-describing, and a deterministic order-independent
// structural hash over the decoded value tree.
//
// A Parser turns a byte stream into a sequence of Value trees:
//
//	p := ion.NewParser(bytes.NewReader(data))
//	values, err := p.ConsumeAll()
//
// An Encoder buffers Value trees and serializes them, including the local
// symbol-table prologue if any symbols were used:
//
//	e := ion.NewEncoder()
//	e.Add(ion.StringValue("hello"))
//	out, err := e.Encode()
//
// IonHash computes a deterministic, order-independent fingerprint over a
// Value tree, suitable for comparing two Ion values for structural equality
// without caring about struct field order.
package ion
