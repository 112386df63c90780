package app

import (
	"github.com/vk/toolgridgo/internal/handlers"
	"github.com/vk/toolgridgo/modules/calc"
	"github.com/vk/toolgridgo/modules/imagegen"
	"github.com/vk/toolgridgo/modules/textkit"
	"github.com/vk/toolgridgo/modules/websearch"
)

// corePacks is the definitive list of all handler packs that are compiled
// into the server binary.
var corePacks = []handlers.Pack{
	&websearch.Pack{},
	&imagegen.Pack{},
	&calc.Pack{},
	&textkit.Pack{},
}
