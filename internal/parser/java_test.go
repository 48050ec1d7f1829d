package parser

import (
	"strings"
	"testing"
)

func TestJavaConstFieldExtraction(t *testing.T) {
	code := `
package com.example;

public class Config {
    public static final int LIMIT = 10;
    static final int HIDDEN = 1;
    public static final String A = "x", B = "y";
    private int count;
}
`
	file := parseSource(t, "java", "Config.java", code)

	if file.Namespace != "com.example" {
		t.Errorf("namespace = %q", file.Namespace)
	}

	limit := declByName(file, "LIMIT")
	if limit == nil {
		t.Fatal("LIMIT not collected")
	}
	if limit.Kind != KindConstField || limit.Access != AccessPublic || limit.Type != "Config" {
		t.Errorf("unexpected LIMIT %+v", limit)
	}
	if !limit.Complete || limit.StatementText != "public static final int LIMIT = 10;" {
		t.Errorf("LIMIT statement = %q complete=%v", limit.StatementText, limit.Complete)
	}
	if limit.Const == nil || limit.Const.Kind != ConstInt || limit.Const.Text != "10" {
		t.Errorf("LIMIT value = %+v", limit.Const)
	}

	if d := declByName(file, "HIDDEN"); d != nil {
		t.Error("HIDDEN lacks the public keyword and must not be collected")
	}
	if d := declByName(file, "count"); d != nil {
		t.Error("count is not a constant field")
	}

	a := declByName(file, "A")
	if a == nil || a.Complete || a.SiblingCount != 2 {
		t.Fatalf("unexpected combined declarator A %+v", a)
	}
	if a.InitText != `"x"` {
		t.Errorf("A init = %q", a.InitText)
	}
	if b := declByName(file, "B"); b == nil || b.InitText != `"y"` {
		t.Fatalf("unexpected combined declarator B %+v", b)
	}
}

func TestJavaMethodExtraction(t *testing.T) {
	code := `
package com.example;

public class Service {
    private String name;

    public String getName() { return name; }
    public void process(int n) { }
    protected void guard() { }
    void helper() { }
    public void onClick() { }
}
`
	file := parseSource(t, "java", "Service.java", code)

	process := declByName(file, "process")
	if process == nil {
		t.Fatal("process not collected")
	}
	if process.StatementText != "public void process(int n)" {
		t.Errorf("process signature = %q", process.StatementText)
	}
	if len(process.Params) != 1 || process.Params[0].Type != "int" {
		t.Errorf("process params = %+v", process.Params)
	}
	if process.ID != "com.example.Service.process(int)" {
		t.Errorf("process id = %q", process.ID)
	}

	guard := declByName(file, "guard")
	if guard == nil || guard.Access != AccessProtected {
		t.Fatalf("guard should be collected as protected: %+v", guard)
	}

	if d := declByName(file, "helper"); d != nil {
		t.Error("package-private helper must not be collected")
	}

	getName := declByName(file, "getName")
	if getName == nil || !getName.Accessor {
		t.Fatalf("getName should be flagged as a bean accessor: %+v", getName)
	}
	if s := scopeByKind(file, ScopeAccessor); s == nil || s.Name != "getName" {
		t.Errorf("accessor scope = %+v", s)
	}
	if s := scopeByKind(file, ScopeEventHandler); s == nil || s.Name != "onClick" {
		t.Errorf("event handler scope = %+v", s)
	}
}

func TestJavaCtorAndStaticInitializer(t *testing.T) {
	code := `
package com.example;

public class Engine {
    public static final int MAX = 5;

    static {
        int warm = MAX;
    }

    public Engine() {
        int cold = MAX;
    }
}
`
	file := parseSource(t, "java", "Engine.java", code)

	if s := scopeByKind(file, ScopeStaticInit); s == nil || s.Type != "Engine" {
		t.Errorf("static initializer scope = %+v", s)
	}
	if s := scopeByKind(file, ScopeCtor); s == nil || s.Name != "Engine" {
		t.Errorf("constructor scope = %+v", s)
	}

	uses := 0
	for _, site := range file.Sites {
		if site.Name == "MAX" && site.Qualifier == "" {
			uses++
		}
	}
	if uses != 2 {
		t.Errorf("expected 2 bare MAX sites, got %d", uses)
	}
}

func TestJavaQualifiedSites(t *testing.T) {
	code := `
package com.example;

public class Caller {
    public void run() {
        int n = Config.LIMIT;
        helper.process(n);
    }
}
`
	file := parseSource(t, "java", "Caller.java", code)

	var limitQualifier, processQualifier string
	for _, site := range file.Sites {
		switch site.Name {
		case "LIMIT":
			limitQualifier = site.Qualifier
		case "process":
			processQualifier = site.Qualifier
		}
	}
	if limitQualifier != "Config" {
		t.Errorf("LIMIT qualifier = %q", limitQualifier)
	}
	if processQualifier != "helper" {
		t.Errorf("process qualifier = %q", processQualifier)
	}
}

func TestJavaEnumMembers(t *testing.T) {
	code := `
package com.example;

public enum Color {
    RED, GREEN;

    public static final int DEPTH = 24;

    public int channels() {
        return DEPTH / 8;
    }
}
`
	file := parseSource(t, "java", "Color.java", code)

	depth := declByName(file, "DEPTH")
	if depth == nil {
		t.Fatal("DEPTH not collected from enum body")
	}
	if depth.Type != "Color" || !depth.Complete {
		t.Errorf("unexpected DEPTH %+v", depth)
	}
	if depth.StatementText != "public static final int DEPTH = 24;" {
		t.Errorf("DEPTH statement = %q", depth.StatementText)
	}
	if depth.Const == nil || depth.Const.Text != "24" {
		t.Errorf("DEPTH value = %+v", depth.Const)
	}

	channels := declByName(file, "channels")
	if channels == nil || channels.ID != "com.example.Color.channels()" {
		t.Fatalf("unexpected channels %+v", channels)
	}

	uses := 0
	for _, site := range file.Sites {
		if site.Name == "DEPTH" && site.Qualifier == "" {
			uses++
		}
	}
	if uses != 1 {
		t.Errorf("expected 1 bare DEPTH site, got %d", uses)
	}
}

func TestJavaNestedTypeAndLambda(t *testing.T) {
	code := `
package com.example;

public class Outer {
    public static class Inner {
        public static final int DEPTH = 2;
    }

    public void walk() {
        Runnable r = () -> {
            use(Inner.DEPTH);
        };
        r.run();
    }
}
`
	file := parseSource(t, "java", "Outer.java", code)

	depth := declByName(file, "DEPTH")
	if depth == nil || depth.Type != "Outer.Inner" {
		t.Fatalf("nested const type = %+v", depth)
	}
	if s := scopeByKind(file, ScopeLocalFunc); s == nil || s.Name != "walk" {
		t.Errorf("lambda scope = %+v", s)
	}
}

func TestJavaFormatConst(t *testing.T) {
	e := &JavaExtractor{}

	if got := e.FormatConst(nil, ""); got != "null" {
		t.Errorf("nil value = %q", got)
	}
	if got := e.FormatConst(&ConstValue{Kind: ConstString, Text: `say "hi"`}, "String"); got != `"say \"hi\""` {
		t.Errorf("string value = %q", got)
	}
	if got := e.FormatConst(&ConstValue{Kind: ConstInt, Text: "5"}, "long"); got != "5L" {
		t.Errorf("long value = %q", got)
	}
	if got := e.FormatConst(&ConstValue{Kind: ConstFloat, Text: "1.5"}, "float"); got != "1.5f" {
		t.Errorf("float value = %q", got)
	}
}

func TestJavaAssembleConst(t *testing.T) {
	e := &JavaExtractor{}
	d := &Declaration{
		Name:      "B",
		Kind:      KindConstField,
		Modifiers: "public static final",
		TypeText:  "int",
	}
	if got := e.AssembleConst(d, "2"); got != "public static final int B = 2;" {
		t.Errorf("assembled = %q", got)
	}
}

func TestJavaSynthesizeMethod(t *testing.T) {
	e := &JavaExtractor{}
	d := &Declaration{
		Name:      "connect",
		Kind:      KindMethod,
		Modifiers: "public",
		Params:    []Param{{Name: "host", Type: "String"}, {Name: "port", Type: "int"}},
	}
	got := e.Synthesize(d)
	if got != "public void connect(String host, int port)" {
		t.Errorf("synthesized = %q", got)
	}
	if !strings.Contains(got, "void") {
		t.Errorf("void return missing: %q", got)
	}
}
