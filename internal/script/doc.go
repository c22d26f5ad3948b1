// Package script binds the build engine to Starlark build scripts.
//
// A script sees a single predeclared module, lbuild:
//
//	def gen(t):
//	    for f in lbuild.getFiles("proto"):
//	        if f.extension == ".proto":
//	            lbuild.exec(["protoc", "--c_out=.", f.path])
//
//	lbuild.task("compile").dependsOn("gen").run(lambda t: lbuild.exec("cc -c main.c"))
//	lbuild.task("gen").run(gen)
//
// The module is also available through load("lbuild", "lbuild"). Other
// load() paths are resolved relative to the file containing the load
// statement.
//
// Every argument coming from a script is type-checked here. The engine only
// ever sees names, string slices and engine.Action values.
package script
