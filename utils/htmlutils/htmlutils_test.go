// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package htmlutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<html><body>
<div class="card">
  <span class="name">  Warung
     Kopi  </span>
  <span class="stars" aria-label=" 4.6 stars "></span>
</div>
<div class="card"><span class="name">Second</span></div>
</body></html>`

func TestAsDocument(t *testing.T) {
	doc, err := AsDocument(strings.NewReader(fixture), "text/html; charset=utf-8")
	require.NoError(t, err)

	cards := doc.Find(".card")
	assert.Equal(t, 2, cards.Length())
	assert.Equal(t, "Warung Kopi", Text(cards.Find(".name")))
	assert.Equal(t, "4.6 stars", Attr(cards.Find(".stars"), "aria-label"))
	assert.Empty(t, Attr(cards.Find(".missing"), "aria-label"))
	assert.Empty(t, Text(cards.Find(".missing")))
}

func TestAsDocumentLatin1(t *testing.T) {
	// "Café" encoded as ISO-8859-1
	body := "<html><body><p>Caf\xe9</p></body></html>"

	doc, err := AsDocument(strings.NewReader(body), "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "Café", Text(doc.Find("p")))
}

func TestOuter(t *testing.T) {
	doc, err := AsDocument(strings.NewReader(fixture), "")
	require.NoError(t, err)
	assert.Equal(t, `<span class="name">Second</span>`, Outer(doc.Find(".card").Last().Find(".name")))
}
