package shopping

import (
	"encoding/json"
	"fmt"
)

const itemsCodecVersion = 1

type itemsEnvelope struct {
	Version int    `json:"v"`
	Items   []Item `json:"items"`
}

func encodeItems(items []Item) (string, error) {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(itemsEnvelope{Version: itemsCodecVersion, Items: items})
	if err != nil {
		return "", fmt.Errorf("failed to encode shopping items: %w", err)
	}
	return string(data), nil
}

func decodeItems(data string) ([]Item, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var envelope itemsEnvelope
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode shopping items: %w", err)
	}
	if envelope.Version != itemsCodecVersion {
		return nil, fmt.Errorf("unsupported shopping items version %d", envelope.Version)
	}
	return envelope.Items, nil
}
