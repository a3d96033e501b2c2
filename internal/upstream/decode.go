package upstream

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/JonMunkholm/catalogview/internal/catalog"
)

// DecodeProducts parses a JSON array of product objects.
// Any structural problem is reported as catalog.ErrMalformedBody.
func DecodeProducts(data []byte) ([]catalog.Product, error) {
	// jx stops at the end of the first value; trailing garbage must still fail.
	if !json.Valid(data) {
		return nil, errors.Wrap(catalog.ErrMalformedBody, "invalid JSON")
	}

	d := jx.DecodeBytes(data)
	if d.Next() != jx.Array {
		return nil, errors.Wrap(catalog.ErrMalformedBody, "expected JSON array")
	}

	products := make([]catalog.Product, 0)
	err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return errors.Wrapf(err, "product %d", len(products))
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrMalformedBody, err)
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	var p catalog.Product
	if d.Next() != jx.Object {
		return p, errors.New("not an object")
	}

	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = decodeText(d)
		case "title":
			p.Title, err = decodeText(d)
		case "slug":
			p.Slug, err = decodeText(d)
		case "description":
			p.Description, err = decodeText(d)
		case "price":
			p.Price, err = decodePrice(d)
		case "category":
			p.Category, err = decodeCategory(d)
		case "images":
			p.Images, err = decodeImages(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return p, err
}

// decodeText reads strings as-is and numbers as their literal text.
// Null and other types decode as "".
func decodeText(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return string(n), nil
	case jx.Null:
		return "", d.Null()
	default:
		return "", d.Skip()
	}
}

// decodePrice accepts numbers and numeric strings. Anything else is 0.
func decodePrice(d *jx.Decoder) (float64, error) {
	var v float64
	switch d.Next() {
	case jx.Number:
		f, err := d.Float64()
		if err != nil {
			return 0, err
		}
		v = f
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, nil
		}
		v = f
	case jx.Null:
		return 0, d.Null()
	default:
		return 0, d.Skip()
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, nil
	}
	return v, nil
}

func decodeCategory(d *jx.Decoder) (*catalog.Category, error) {
	switch d.Next() {
	case jx.Object:
	case jx.Null:
		return nil, d.Null()
	default:
		return nil, d.Skip()
	}

	var c catalog.Category
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			c.Name, err = decodeText(d)
		case "image":
			c.Image, err = decodeText(d)
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// decodeImages keeps string entries in order and drops everything else.
func decodeImages(d *jx.Decoder) ([]string, error) {
	switch d.Next() {
	case jx.Array:
	case jx.Null:
		return nil, d.Null()
	default:
		return nil, d.Skip()
	}

	var images []string
	err := d.Arr(func(d *jx.Decoder) error {
		if d.Next() != jx.String {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		images = append(images, s)
		return nil
	})
	return images, err
}
