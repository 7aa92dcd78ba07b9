package models

// Value is a generic type to represent any JSON value.
// Scalars are nil, bool, json.Number or string; containers are
// Object and Array.
type Value interface{}

// Member is a single key/value pair inside an Object.
type Member struct {
	Key   string
	Value Value
}

// Object represents a JSON object as an ordered sequence of members.
// A slice rather than a map, so the key order seen while decoding is
// the order every later stage observes.
type Object []Member

// Array represents a JSON array, which is a slice of Values.
type Array []Value

// Document holds one fully parsed JSON document.
type Document struct {
	Root        Value
	RootIsArray bool // True if the root of the JSON is an array vs an object
}
