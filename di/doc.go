// Package di 提供一个最小化的依赖注入容器。
//
// 容器只做一件事：给定一个接口类型（抽象），返回其绑定实现的单例实例，
// 并递归地填充该实现声明的依赖槽（slot）。
//
// 所有绑定在构建容器之前通过 Builder 显式注册，构建之后绑定表不可变：
//
//	b := di.NewBuilder()
//	di.MustBind[Reader, *FileReader](b, di.New[FileReader])
//	di.MustBind[Parser, *CSVParser](b, di.New[CSVParser],
//		di.Slot(func(p *CSVParser, r Reader) { p.reader = r }),
//	)
//	c, err := b.Build()
//
//	parser, err := di.Resolve[Parser](c)
//
// 实现类型必须嵌入 di.Component 作为可注入标记，否则解析时返回
// *MissingInjectionMarkerError。
//
// 单例在构造之后、填充依赖槽之前就会写入缓存，因此循环依赖可以终止：
// 循环中后被请求的一方拿到的是同一个（可能尚未填充完毕的）实例。
package di
