// Package flattener converts a parsed JSON value tree into an ordered list
// of flat key/value entries suitable for environment files.
package flattener

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/jsonenv/internal/errors"
	"github.com/mcncl/jsonenv/internal/models"
)

// Rename modes for object key segments.
const (
	RenameNone           = "none"
	RenameUpper          = "upper"
	RenameLower          = "lower"
	RenameSnake          = "snake"
	RenameScreamingSnake = "screaming-snake"
)

// Options configures one flattening run. It is read-only once constructed.
type Options struct {
	// KeySeparator joins parent and child key segments. Must be non-empty.
	KeySeparator string
	// ArraySeparator joins array elements when EnumerateArray is off.
	ArraySeparator string
	// EnumerateArray expands arrays into one entry per element, keyed by the
	// zero-based index, instead of joining them into a single value.
	EnumerateArray bool
	// Rename is applied to every object key segment before composition.
	// Index segments produced by EnumerateArray are never renamed.
	Rename string
	// Prefix is composed in front of every key with KeySeparator.
	Prefix string
}

// DefaultOptions returns the options used when no flags or config override them.
func DefaultOptions() Options {
	return Options{
		KeySeparator:   "__",
		ArraySeparator: ",",
		EnumerateArray: false,
		Rename:         RenameNone,
	}
}

// Validate reports whether the options satisfy their invariants.
func (o Options) Validate() error {
	if o.KeySeparator == "" {
		return errors.ErrEmptySeparator
	}
	switch o.Rename {
	case RenameNone, RenameUpper, RenameLower, RenameSnake, RenameScreamingSnake:
		return nil
	default:
		return fmt.Errorf("unknown rename mode %q", o.Rename)
	}
}

// Entry is one flattened key/value pair. IsString records that the value came
// from a JSON string (or a joined array); only the dotenv formatter cares,
// for quoting.
type Entry struct {
	Key      string
	Value    string
	IsString bool
}

// Flattener walks a JSON value tree and accumulates entries in document order.
type Flattener struct {
	opts    Options
	entries []Entry
	index   map[string]int
}

// New creates a Flattener for the given options.
func New(opts Options) *Flattener {
	return &Flattener{
		opts:  opts,
		index: make(map[string]int),
	}
}

// Flatten converts a JSON value tree into an ordered entry list. It is a
// total function: any tree the parser produces flattens without error.
//
// When two paths compose to the same key (a key containing the separator, or
// an enumerated index colliding with a literal key) the last write wins, but
// the entry keeps its first-seen position so output order stays deterministic.
func (f *Flattener) Flatten(value models.Value) []Entry {
	f.walk(f.opts.Prefix, value)
	return f.entries
}

func (f *Flattener) walk(prefix string, value models.Value) {
	switch v := value.(type) {
	case models.Object:
		for _, member := range v {
			key := buildKey(prefix, f.renameSegment(member.Key), f.opts.KeySeparator)
			f.walk(key, member.Value)
		}
	case models.Array:
		if f.opts.EnumerateArray {
			for i, element := range v {
				key := buildKey(prefix, strconv.Itoa(i), f.opts.KeySeparator)
				f.walk(key, element)
			}
			return
		}
		// Joined arrays surface as string values so the dotenv style quotes them.
		f.emit(prefix, f.join(v), true)
	default:
		s, isString := scalarString(v)
		f.emit(prefix, s, isString)
	}
}

// join renders a non-enumerated array as one separator-joined string. Nested
// containers collapse recursively into the same join, so the result is always
// a single scalar.
func (f *Flattener) join(array models.Array) string {
	fields := make([]string, 0, len(array))
	for _, element := range array {
		switch v := element.(type) {
		case models.Array:
			fields = append(fields, f.join(v))
		case models.Object:
			fields = append(fields, f.join(memberValues(v)))
		default:
			s, _ := scalarString(v)
			fields = append(fields, s)
		}
	}
	return strings.Join(fields, f.opts.ArraySeparator)
}

func memberValues(object models.Object) models.Array {
	values := make(models.Array, 0, len(object))
	for _, member := range object {
		values = append(values, member.Value)
	}
	return values
}

func (f *Flattener) emit(key, value string, isString bool) {
	key = strings.TrimSpace(key)
	if i, ok := f.index[key]; ok {
		f.entries[i] = Entry{Key: key, Value: value, IsString: isString}
		return
	}
	f.index[key] = len(f.entries)
	f.entries = append(f.entries, Entry{Key: key, Value: value, IsString: isString})
}

func (f *Flattener) renameSegment(key string) string {
	switch f.opts.Rename {
	case RenameUpper:
		return strings.ToUpper(key)
	case RenameLower:
		return strings.ToLower(key)
	case RenameSnake:
		return strcase.ToSnake(key)
	case RenameScreamingSnake:
		return strcase.ToScreamingSnake(key)
	default:
		return key
	}
}

// buildKey composes a child key under a prefix. An empty prefix means the
// child is at the root and gets no leading separator.
func buildKey(prefix, key, separator string) string {
	if prefix == "" {
		return key
	}
	return prefix + separator + key
}

// scalarString renders a scalar value the way it appears in env output:
// null as the empty string, booleans as true/false, numbers as their decimal
// text from the input, strings verbatim. The second result reports whether
// the value was a JSON string.
func scalarString(value models.Value) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case bool:
		return strconv.FormatBool(v), false
	case json.Number:
		return v.String(), false
	case string:
		return v, true
	default:
		return fmt.Sprint(v), false
	}
}
