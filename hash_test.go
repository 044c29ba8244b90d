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

package ion

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ToLower(s))
	require.NoError(t, err)
	return b
}

func TestDigestKnownVectors(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"Bool(true)", BoolValue(true), "CEE54499D5F362B272FBD8EE6480FF547A6DC4E2D9E12733459F820E70305017"},
		{"Int(1)", IntValue(1), "F089F64CA73B9B160D33F19B07F8D0C97D4E8E4215C0B6B8B836DEDCFB65929A"},
		{"Null(Null)", Null(), "0FB06B6183C21379529FDD45D6AF4ABA731AC6F081EF9E6C1C94B1FB26177304"},
		// the published vector for this case carries one duplicated hex digit
		// (65 chars, not a whole number of bytes); this is the 32-byte value
		// with that stray digit removed.
		{"String(Hola)", StringValue("Hola"), "39C4F35639F5F2A583C5E43943C2067992E55ED2AA3190342876566CBFF62EE0"},
		{"Struct{e:5}", StructValue(map[string]Value{"e": IntValue(5)}), "51DB1AE986743B6143A837436799B09E73F10B2BA8299DE28C1937736FBB63B8"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Digest(c.v, nil)
			want := mustHexBytes(t, c.want)
			assert.Equal(t, want, got)
		})
	}
}

func TestDigestIsDeterministicAcrossFieldOrder(t *testing.T) {
	a := StructValue(map[string]Value{"x": IntValue(1), "y": IntValue(2)})
	b := StructValue(map[string]Value{"y": IntValue(2), "x": IntValue(1)})
	assert.Equal(t, Digest(a, nil), Digest(b, nil))
}

func TestDigestIdempotentThroughEncodeDecode(t *testing.T) {
	v := StructValue(map[string]Value{"e": IntValue(5), "name": StringValue("widget")})

	enc := NewEncoder().Add(v)
	bs, err := enc.Encode()
	require.NoError(t, err)

	p := NewParserBytes(bs)
	got, err := p.ConsumeValue()
	require.NoError(t, err)

	assert.Equal(t, Digest(v, nil), Digest(got, nil))
}

func TestIonHashDotCommutativeAndIdentity(t *testing.T) {
	a := NewIonHash(nil)
	a.AddValue(IntValue(1))
	b := NewIonHash(nil)
	b.AddValue(StringValue("x"))

	ab := NewIonHash(nil)
	ab.AddValue(IntValue(1))
	ab.Dot(b)

	ba := NewIonHash(nil)
	ba.AddValue(StringValue("x"))
	ba.Dot(a)

	assert.Equal(t, ab.Bytes(), ba.Bytes())

	identity := NewIonHash(nil)
	identity.AddValue(IntValue(1))
	empty := NewIonHash(nil)
	identity.Dot(empty)
	assert.Equal(t, Digest(IntValue(1), nil), identity.Bytes())
}

func TestSipHashDigesterProducesDifferentFingerprint(t *testing.T) {
	v := IntValue(1)
	sha := Digest(v, nil)
	sip := Digest(v, SipHashDigester(1, 2))
	assert.NotEqual(t, sha, sip)
	assert.Len(t, sip, 16) // 128-bit siphash output
}
