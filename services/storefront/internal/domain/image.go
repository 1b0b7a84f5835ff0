package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ImageRefKind tags how an alternate image was described upstream.
type ImageRefKind uint8

const (
	// ImageRefPath is a plain string path.
	ImageRefPath ImageRefKind = iota + 1
	// ImageRefObject is an object carrying the path under one of ImageObjectKeys.
	ImageRefObject
)

func (k ImageRefKind) String() string {
	switch k {
	case ImageRefPath:
		return "path"
	case ImageRefObject:
		return "object"
	default:
		return "unknown"
	}
}

// ImageObjectKeys are the keys checked, in order, when an alternate image is
// an object rather than a string.
var ImageObjectKeys = []string{"image", "path", "url", "image_path", "src"}

// ImageRef is an alternate product image, resolved to a path once at decode
// time. For ImageRefObject, Key records which object key supplied the path.
type ImageRef struct {
	Kind ImageRefKind
	Key  string
	path string
}

// NewPathRef returns an ImageRef for a plain path.
func NewPathRef(path string) ImageRef {
	return ImageRef{Kind: ImageRefPath, path: strings.TrimSpace(path)}
}

// NewObjectRef returns an ImageRef whose path came from the given object key.
func NewObjectRef(key, path string) ImageRef {
	return ImageRef{Kind: ImageRefObject, Key: key, path: strings.TrimSpace(path)}
}

// Path returns the image path, relative to the catalog image base URL unless
// it is already absolute. It is empty when no usable path was found.
func (r ImageRef) Path() string { return r.path }

// UnmarshalJSON accepts a string or an object. Other JSON values yield an
// ImageRef with an empty Path.
func (r *ImageRef) UnmarshalJSON(b []byte) error {
	*r = ImageRef{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = NewPathRef(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		for _, key := range ImageObjectKeys {
			var s string
			if err := json.Unmarshal(obj[key], &s); err != nil {
				continue
			}
			if strings.TrimSpace(s) != "" {
				*r = NewObjectRef(key, s)
				break
			}
		}
	}
	return nil
}

// MarshalJSON encodes the resolved path only.
func (r ImageRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.path)
}

// decodeImageList decodes an alternate-image field. Anything that is not an
// array, and any entry without a usable path, is dropped.
func decodeImageList(raw json.RawMessage) []ImageRef {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	refs := make([]ImageRef, 0, len(items))
	for _, item := range items {
		var ref ImageRef
		if err := json.Unmarshal(item, &ref); err != nil {
			continue
		}
		if ref.Path() != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}
