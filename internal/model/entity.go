package model

// GenericRecord is a schema-agnostic map for any backend record
type GenericRecord map[string]interface{}

// Clone returns a shallow copy of the record. Records coming from the
// paginated fetcher may be shared, so joins never mutate them in place.
func (r GenericRecord) Clone() GenericRecord {
	out := make(GenericRecord, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CollectionResult is a fully materialized collection, in upstream response order
type CollectionResult []GenericRecord

// CollectionSet maps a descriptor name to its resolved collection
type CollectionSet map[string]CollectionResult

// EntityDescriptor names a main collection, an optional dependent
// sub-collection related by a foreign key, and the backend serving them
type EntityDescriptor struct {
	MainCollection string `yaml:"main_collection" json:"main_collection"`
	SubCollection  string `yaml:"sub_collection,omitempty" json:"sub_collection,omitempty"`
	ForeignKey     string `yaml:"foreign_key,omitempty" json:"foreign_key,omitempty"`
	Service        string `yaml:"service,omitempty" json:"service,omitempty"`
}

// HasSubCollection reports whether the descriptor requests the joined shape.
// Either field alone means the descriptor is misconfigured, which resolution
// rejects before any network call.
func (e EntityDescriptor) HasSubCollection() bool {
	return e.SubCollection != "" || e.ForeignKey != ""
}
