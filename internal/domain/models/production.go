package models

// Production captures one production batch.
type Production struct {
	ID                string  `json:"id"`
	Date              string  `json:"date"`
	Units             int     `json:"units"`
	WholeMilkKg       float64 `json:"wholeMilkKg"`
	RawMaterialLiters float64 `json:"rawMaterialLiters"`
	// TransformationIndex is a producer-supplied efficiency percentage,
	// stored as reported.
	TransformationIndex float64 `json:"transformationIndex"`
}
