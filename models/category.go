package models

type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// CategoryMap projects categories into the {id: type} object clients expect.
func CategoryMap(categories []Category) map[int]string {
	out := make(map[int]string, len(categories))
	for _, c := range categories {
		out[c.ID] = c.Type
	}
	return out
}
