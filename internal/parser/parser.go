package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsonenv/internal/errors"
	"github.com/mcncl/jsonenv/internal/models"
)

// Parse decodes a single JSON document from an io.Reader into a Document.
//
// Decoding walks the token stream rather than unmarshalling into
// map[string]interface{}: Go maps would drop the object key order, and the
// flattened output must list entries in document order. Numbers are kept as
// json.Number so their decimal text survives verbatim.
func Parse(reader io.Reader) (models.Document, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	rootValue, err := decodeValue(decoder)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			// Nothing was decoded at all, so the stream was empty or whitespace.
			return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return models.Document{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return models.Document{}, errors.NewParsingError("JSON document is truncated", errors.ErrInvalidJSON)
		}
		return models.Document{}, errors.NewParsingError("failed to decode JSON", err)
	}

	// Anything after the first document is an error: either a second value or
	// trailing garbage.
	if _, err := decoder.Token(); err != io.EOF {
		if err != nil {
			return models.Document{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
		}
		return models.Document{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}

	doc := models.Document{Root: rootValue}
	if _, ok := rootValue.(models.Array); ok {
		doc.RootIsArray = true
	}
	return doc, nil
}

// decodeValue reads exactly one JSON value from the token stream.
func decodeValue(decoder *json.Decoder) (models.Value, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	switch t := token.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(decoder)
		case '[':
			return decodeArray(decoder)
		default:
			// ']' and '}' are consumed by decodeArray/decodeObject and can
			// never start a value.
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	default:
		// nil, bool, json.Number or string
		return t, nil
	}
}

// decodeObject reads members until the closing brace, preserving their order.
// The opening brace has already been consumed.
func decodeObject(decoder *json.Decoder) (models.Object, error) {
	object := models.Object{}
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", token)
		}
		value, err := decodeValue(decoder)
		if err != nil {
			return nil, err
		}
		object = append(object, models.Member{Key: key, Value: value})
	}
	// Consume the closing '}'.
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return object, nil
}

// decodeArray reads elements until the closing bracket. The opening bracket
// has already been consumed.
func decodeArray(decoder *json.Decoder) (models.Array, error) {
	array := models.Array{}
	for decoder.More() {
		value, err := decodeValue(decoder)
		if err != nil {
			return nil, err
		}
		array = append(array, value)
	}
	// Consume the closing ']'.
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return array, nil
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Document, error) {
	// TrimSpace is important here because an empty string reader will give io.EOF
	// to the first Token call, but we want a specific error for whitespace-only
	// input before touching the decoder.
	if strings.TrimSpace(jsonString) == "" {
		return models.Document{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	reader := strings.NewReader(jsonString)
	return Parse(reader)
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
