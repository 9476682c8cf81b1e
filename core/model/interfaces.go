package model

import "io"

// Persistable はファイルやストリームに保存できる学習済みモデル
type Persistable interface {
	// Save writes the model to filename.
	Save(filename string) error
	// Write serializes the model to w.
	Write(w io.Writer) error
}

// WeightExporter は重みを JSON 交換形式で書き出せるモデル
type WeightExporter interface {
	Export() *ModelWeights
}

// SavedModel is what the command line and the trainers hand around after
// training: a model that can be stored and inspected.
type SavedModel interface {
	Persistable
	WeightExporter
}
