// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// FormatTag is the canonical identifier of a file format: lowercase with a
// single leading dot (".csv", ".npy"). Build tags with convert.Normalize.
type FormatTag string

// Ext returns the tag as a filename extension.
func (t FormatTag) Ext() string { return string(t) }

// Name returns the tag without its leading dot.
func (t FormatTag) Name() string {
	if len(t) > 0 && t[0] == '.' {
		return string(t[1:])
	}
	return string(t)
}

// ConversionKey identifies one direction of conversion. (A, B) and (B, A)
// are distinct keys.
type ConversionKey struct {
	From FormatTag `json:"from" yaml:"from"`
	To   FormatTag `json:"to" yaml:"to"`
}

func (k ConversionKey) String() string {
	return fmt.Sprintf("%s -> %s", k.From, k.To)
}

// Family groups transforms that share a shape/coercion contract.
type Family string

const (
	FamilyMarkup     Family = "markup"
	FamilyStructured Family = "structured"
	FamilyNumeric    Family = "numeric"
	FamilyMedia      Family = "media"
	FamilyDocument   Family = "document"
)
