package sqlite

import "encoding/json"

// encodeStrings marshals a string slice to its JSON column form. Nil
// encodes as the empty array so columns never hold SQL NULL by accident.
func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeStrings unmarshals a JSON array column. The empty string decodes
// to an empty slice; columns written by older schema versions may be
// blank.
func decodeStrings(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}
