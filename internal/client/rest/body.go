package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// Body is a request payload together with its content type.
type Body interface {
	encode() (io.Reader, string, error)
}

type jsonBody struct{ v any }

// JSON encodes v as a JSON document.
func JSON(v any) Body { return jsonBody{v: v} }

func (b jsonBody) encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// Fielder exposes a record as ordered named values.
type Fielder interface {
	Fields() []string
	Value(field string) any
}

type formBody struct{ r Fielder }

// Form encodes r as multipart form data, one field per record key.
func Form(r Fielder) Body { return formBody{r: r} }

func (b formBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range b.r.Fields() {
		if err := w.WriteField(f, formValue(b.r.Value(f))); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func formValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
