package entities

// Passage is a policy-clause excerpt retrieved from the search index and used
// as grounding context for generation.
type Passage struct {
	Content     string `json:"content"`
	ProductName string `json:"product_name"`
	PageNumber  int    `json:"page_number"`
	SourceFile  string `json:"source_file"`
}
