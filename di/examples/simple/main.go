package main

import (
	"fmt"
	"strings"

	"github.com/gocrud/injector/di"
)

// 定义接口
type FileReader interface {
	ReadLines() []string
}

type ProductParser interface {
	Parse(line string) string
}

type ProductService interface {
	GetAllFromCategory(category string) []string
}

// 实现
type staticReader struct {
	di.Component
}

func (*staticReader) ReadLines() []string {
	return []string{"1,apple,fruit", "2,carrot,vegetable", "3,pear,fruit"}
}

type csvParser struct {
	di.Component
}

func (*csvParser) Parse(line string) string { return line }

type productService struct {
	di.Component
	reader FileReader
	parser ProductParser
}

func (s *productService) GetAllFromCategory(category string) []string {
	var names []string
	for _, line := range s.reader.ReadLines() {
		cols := strings.Split(s.parser.Parse(line), ",")
		if len(cols) == 3 && cols[2] == category {
			names = append(names, cols[1])
		}
	}
	return names
}

func main() {
	b := di.NewBuilder()
	di.MustBind[FileReader, *staticReader](b, di.New[staticReader])
	di.MustBind[ProductParser, *csvParser](b, di.New[csvParser])
	di.MustBind[ProductService, *productService](b, di.New[productService],
		di.Slot(func(s *productService, r FileReader) { s.reader = r }),
		di.Slot(func(s *productService, p ProductParser) { s.parser = p }),
	)

	c, err := b.Build()
	if err != nil {
		panic(err)
	}

	svc := di.MustResolve[ProductService](c)
	fmt.Println("fruit:", svc.GetAllFromCategory("fruit"))

	// 第二次解析返回同一个实例
	fmt.Println("same instance:", svc == di.MustResolve[ProductService](c))

	for _, info := range c.Bindings() {
		fmt.Printf("%v -> %v resolved=%v\n", info.Abstraction, info.Concrete, info.Resolved)
	}
}
