package utils

import (
	"testing"
)

const sampleDiff = `diff --git a/drivers/foo.c b/drivers/foo.c
index 1111111..2222222 100644
--- a/drivers/foo.c
+++ b/drivers/foo.c
@@ -40,6 +40,8 @@ static int foo_probe(struct platform_device *pdev)
 	int ret;

 	ret = bar();
+	if (ret)
+		return ret;

 	return 0;
 }
`

func TestParseDiffAdditions(t *testing.T) {
	additions, err := ParseDiffAdditions(sampleDiff)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines, ok := additions["drivers/foo.c"]
	if !ok {
		t.Fatal("Expected entry for drivers/foo.c")
	}

	// New-side numbering: hunk starts at line 40 (1-based). Three context
	// lines precede the additions, so the added lines are 43 and 44
	// (1-based), recorded 0-based.
	want := []int{42, 43}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d added lines, got %d: %v", len(want), len(lines), lines)
	}
	for _, line := range want {
		if _, ok := lines[line]; !ok {
			t.Errorf("Expected line %d to be recorded as added", line)
		}
	}
}

func TestParseDiffAdditionsMultipleHunks(t *testing.T) {
	diffText := `diff --git a/a.c b/a.c
index 1111111..2222222 100644
--- a/a.c
+++ b/a.c
@@ -1,3 +1,4 @@
 line one
+inserted
 line two
 line three
@@ -10,2 +11,3 @@
 ten
+eleven
 twelve
`

	additions, err := ParseDiffAdditions(diffText)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := additions["a.c"]
	for _, line := range []int{1, 11} {
		if _, ok := lines[line]; !ok {
			t.Errorf("Expected line %d recorded, got %v", line, lines)
		}
	}
	if len(lines) != 2 {
		t.Errorf("Expected exactly 2 added lines, got %v", lines)
	}
}

func TestParseDiffAdditionsRemovalsOnly(t *testing.T) {
	diffText := `diff --git a/b.c b/b.c
index 1111111..2222222 100644
--- a/b.c
+++ b/b.c
@@ -5,3 +5,2 @@
 keep
-drop
 keep too
`

	additions, err := ParseDiffAdditions(diffText)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines, ok := additions["b.c"]
	if !ok {
		t.Fatal("Expected an entry for a file with a header but no additions")
	}
	if len(lines) != 0 {
		t.Errorf("Expected empty addition set, got %v", lines)
	}
}

func TestParseDiffAdditionsDeletedFileSkipped(t *testing.T) {
	diffText := `diff --git a/gone.c b/gone.c
deleted file mode 100644
index 1111111..0000000
--- a/gone.c
+++ /dev/null
@@ -1,2 +0,0 @@
-first
-second
`

	additions, err := ParseDiffAdditions(diffText)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := additions["gone.c"]; ok {
		t.Error("Expected no entry for a deleted file")
	}
}

func TestParseDiffAdditionsNewFile(t *testing.T) {
	diffText := `diff --git a/new.c b/new.c
new file mode 100644
index 0000000..2222222
--- /dev/null
+++ b/new.c
@@ -0,0 +1,3 @@
+int bar(void)
+{
+}
`

	additions, err := ParseDiffAdditions(diffText)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := additions["new.c"]
	for _, line := range []int{0, 1, 2} {
		if _, ok := lines[line]; !ok {
			t.Errorf("Expected line %d recorded, got %v", line, lines)
		}
	}
}

func TestParseDiffAdditionsGarbageInput(t *testing.T) {
	// Garbage either fails to parse or yields nothing; it must never
	// fabricate a file entry.
	additions, err := ParseDiffAdditions("not a diff at all")
	if err == nil && len(additions) != 0 {
		t.Errorf("Expected no entries for garbage input, got %v", additions)
	}
}
