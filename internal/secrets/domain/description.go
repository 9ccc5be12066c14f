package domain

// Metadata is the ciphertext-free view of one secret version.
type Metadata struct {
	CreateDate          int64    `json:"create_date"`
	LastDataKeyRotation int64    `json:"last_data_key_rotation"`
	AuthorizedEntities  []string `json:"authorized_entities"`
	Deprecated          bool     `json:"deprecated"`
}

// Description groups metadata by secret name, then by version.
type Description map[string]map[uint]Metadata

// Describe projects secrets onto a Description.
func Describe(secrets []Secret) Description {
	out := make(Description)
	for _, s := range secrets {
		versions, ok := out[s.Name]
		if !ok {
			versions = make(map[uint]Metadata)
			out[s.Name] = versions
		}
		entities := s.AuthorizedEntities
		if entities == nil {
			entities = []string{}
		}
		versions[s.Version] = Metadata{
			CreateDate:          s.CreateDate,
			LastDataKeyRotation: s.LastDataKeyRotation,
			AuthorizedEntities:  entities,
			Deprecated:          s.Deprecated,
		}
	}
	return out
}
