package app

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/injector/catalog"
	"github.com/gocrud/injector/di"
)

// BindingView 一条绑定的可序列化描述
type BindingView struct {
	Abstraction string   `json:"abstraction"`
	Concrete    string   `json:"concrete"`
	Slots       []string `json:"slots,omitempty"`
	Resolved    bool     `json:"resolved"`
}

// Diagnostics 容器的绑定和依赖图
type Diagnostics struct {
	Bindings []BindingView `json:"bindings"`
	Order    []string      `json:"order"`
	Cycles   [][]string    `json:"cycles,omitempty"`
	Dangling []string      `json:"dangling,omitempty"`
}

// Describe 汇总容器的绑定表和依赖图
func Describe(c *di.Container) Diagnostics {
	var d Diagnostics
	for _, info := range c.Bindings() {
		d.Bindings = append(d.Bindings, BindingView{
			Abstraction: info.Abstraction.String(),
			Concrete:    info.Concrete.String(),
			Slots:       typeNames(info.Slots),
			Resolved:    info.Resolved,
		})
	}

	g := c.Graph()
	d.Order = typeNames(g.Order)
	for _, cycle := range g.Cycles {
		d.Cycles = append(d.Cycles, typeNames(cycle))
	}
	for _, s := range g.Dangling {
		d.Dangling = append(d.Dangling, s.Owner.String()+" -> "+s.Slot.String())
	}
	return d
}

func typeNames(types []reflect.Type) []string {
	if len(types) == 0 {
		return nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

func healthz(store catalog.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := store.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "products": n})
	}
}

func debugBindings(container *di.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Describe(container))
	}
}
