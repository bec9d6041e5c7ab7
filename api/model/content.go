package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ContentImageDir is where hero images for site content live, relative to the
// content root.
const ContentImageDir = "public/images/webp"

var ErrInvalidSlug = errors.New("invalid slug")

type ContentType struct {
	s string
}

var (
	Tips   = ContentType{"tips"}
	Guides = ContentType{"guides"}
	News   = ContentType{"news"}
)

func (t ContentType) String() string {
	return t.s
}

func (t ContentType) IsZero() bool {
	return t.s == ""
}

func ContentTypeFromString(s string) (ContentType, error) {
	switch s {
	case Tips.s:
		return Tips, nil
	case Guides.s:
		return Guides, nil
	case News.s:
		return News, nil
	}

	return ContentType{}, fmt.Errorf("unknown content type: %q (use tips, guides or news)", s)
}

func (t *ContentType) Set(s string) error {
	parsed, err := ContentTypeFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t *ContentType) Type() string {
	return "type"
}

// ContentPath returns root/public/images/webp/{type}/{slug}.webp.
func ContentPath(root string, t ContentType, slug string) (string, error) {
	if slug == "" || slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}

	return filepath.Join(root, filepath.FromSlash(ContentImageDir), t.s, slug+".webp"), nil
}

// ContentKey is the object key of a content image, relative to the storage prefix.
func ContentKey(t ContentType, slug string) string {
	return t.s + "/" + slug + ".webp"
}
