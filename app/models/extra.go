package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Documents keep any key their struct does not declare in an inline
// Extra map, so a body is stored and returned as the client sent it.

var knownKeys sync.Map // reflect.Type -> map[string]struct{}

func declaredKeys(t reflect.Type) map[string]struct{} {
	if v, ok := knownKeys.Load(t); ok {
		return v.(map[string]struct{})
	}
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys[name] = struct{}{}
	}
	knownKeys.Store(t, keys)
	return keys
}

// decodeWithExtra fills known (a pointer to an alias struct without
// methods) from data and returns the undeclared keys.
func decodeWithExtra(data []byte, known interface{}) (bson.M, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	declared := declaredKeys(reflect.TypeOf(known).Elem())
	var extra bson.M
	for k, v := range raw {
		if _, ok := declared[k]; ok {
			continue
		}
		if extra == nil {
			extra = bson.M{}
		}
		extra[k] = v
	}
	return extra, nil
}

// encodeWithExtra marshals known and merges extra into the same object.
// Declared fields win over an extra key of the same name.
func encodeWithExtra(known interface{}, extra bson.M) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	declared := declaredKeys(reflect.Indirect(reflect.ValueOf(known)).Type())
	for k, v := range extra {
		if _, ok := declared[k]; ok {
			continue
		}
		out[k] = plain(v)
	}
	return json.Marshal(out)
}

// plain turns driver-decoded nested documents into JSON-friendly values.
func plain(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case primitive.A:
		s := make([]interface{}, len(t))
		for i, e := range t {
			s[i] = plain(e)
		}
		return s
	}
	return v
}
