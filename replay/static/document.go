package static

// document is the YAML layout of a capture.
type document struct {
	Frame    uint32                `yaml:"frame"`
	Draws    []drawDoc             `yaml:"draws"`
	Usage    map[uint64][]usageDoc `yaml:"usage"`
	Textures []textureDoc          `yaml:"textures"`
	History  []historyDoc          `yaml:"history"`
	Shaders  []shaderDoc           `yaml:"shaders"`
}

type drawDoc struct {
	EID      uint32     `yaml:"eid"`
	Name     string     `yaml:"name"`
	Flags    []string   `yaml:"flags"`
	Color    string     `yaml:"color"`
	Children []drawDoc  `yaml:"children"`
	Events   []eventDoc `yaml:"events"`
}

type eventDoc struct {
	EID         uint32 `yaml:"eid"`
	Description string `yaml:"desc"`
}

type usageDoc struct {
	EID   uint32 `yaml:"eid"`
	Usage string `yaml:"usage"`
}

type textureDoc struct {
	ID     uint64 `yaml:"id"`
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

type historyDoc struct {
	Texture uint64   `yaml:"texture"`
	X       int      `yaml:"x"`
	Y       int      `yaml:"y"`
	Mods    []modDoc `yaml:"mods"`
}

type modDoc struct {
	EID    uint32   `yaml:"eid"`
	Failed []string `yaml:"failed"`
	Pre    valueDoc `yaml:"pre"`
	Post   valueDoc `yaml:"post"`
}

type valueDoc struct {
	Color   [4]float32 `yaml:"color"`
	Depth   float32    `yaml:"depth"`
	Stencil int32      `yaml:"stencil"`
}

type shaderDoc struct {
	EID   uint32    `yaml:"eid"`
	Stage string    `yaml:"stage"`
	WGSL  string    `yaml:"wgsl"`
	Trace *traceDoc `yaml:"trace"`
}

type traceDoc struct {
	Inputs   []varDoc   `yaml:"inputs"`
	CBuffers []cbufDoc  `yaml:"cbuffers"`
	States   []stateDoc `yaml:"states"`
}

type cbufDoc struct {
	Name      string   `yaml:"name"`
	Variables []varDoc `yaml:"variables"`
}

type stateDoc struct {
	Next      uint32     `yaml:"next"`
	Registers []varDoc   `yaml:"registers"`
	Outputs   []varDoc   `yaml:"outputs"`
	Indexable [][]varDoc `yaml:"indexable"`
}

// varDoc values are kept as strings so that ints keep their exact bits
// and hex literals are accepted.
type varDoc struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Rows    int      `yaml:"rows"`
	Columns int      `yaml:"columns"`
	Value   []string `yaml:"value"`
	Members []varDoc `yaml:"members"`
}
