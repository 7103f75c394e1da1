package infrastructure_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func readFixture(t *testing.T, relPath string) string {
	t.Helper()
	root, err := projectRoot()
	if err != nil {
		t.Fatalf("locate project root failed: %v", err)
	}
	contents, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		t.Fatalf("read %s failed: %v", relPath, err)
	}
	return string(contents)
}

func projectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func assertContains(t *testing.T, contents, needle, file string) {
	t.Helper()
	if !strings.Contains(contents, needle) {
		t.Fatalf("%s missing %q", file, needle)
	}
}

func parseYAML(t *testing.T, relPath string) *yaml.Node {
	t.Helper()
	contents := readFixture(t, relPath)
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(contents), &doc); err != nil {
		t.Fatalf("unmarshal %s failed: %v", relPath, err)
	}
	if len(doc.Content) == 0 {
		t.Fatalf("%s has empty yaml document", relPath)
	}
	return doc.Content[0]
}

func mappingValue(t *testing.T, node *yaml.Node, key string) *yaml.Node {
	t.Helper()
	if node == nil || node.Kind != yaml.MappingNode {
		t.Fatalf("expected mapping node while reading key %q", key)
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		k := node.Content[i]
		v := node.Content[i+1]
		if k.Value == key {
			return v
		}
	}
	t.Fatalf("missing key %q", key)
	return nil
}

func sequenceHasScalar(node *yaml.Node, want string) bool {
	if node == nil || node.Kind != yaml.SequenceNode {
		return false
	}
	for _, item := range node.Content {
		if item.Kind == yaml.ScalarNode && item.Value == want {
			return true
		}
	}
	return false
}

func TestDataServiceTableShape(t *testing.T) {
	const relPath = "infrastructure/data/serverless.yml"
	contents := readFixture(t, relPath)

	assertContains(t, contents, "service: bakery-dev-data", relPath)
	assertContains(t, contents, "IndexName: EntityTypeIndex", relPath)
	assertContains(t, contents, "StreamViewType: NEW_IMAGE", relPath)
	assertContains(t, contents, "bakery-dev-data-TableStreamArn", relPath)
}

func TestAPIUsesDataOutputs(t *testing.T) {
	const relPath = "infrastructure/api/serverless.yml"
	contents := readFixture(t, relPath)

	assertContains(t, contents, "TABLE_NAME: ${cf:bakery-dev-data.TableName}", relPath)
	assertContains(t, contents, "${cf:bakery-dev-data.TableArn}/index/EntityTypeIndex", relPath)
	assertContains(t, contents, "AUTH_MODE: cognito", relPath)
}

func TestComposeDeploysDataFirst(t *testing.T) {
	const relPath = "infrastructure/serverless-compose.yml"
	contents := readFixture(t, relPath)

	assertContains(t, contents, "data:\n    path: ./data", relPath)
	assertContains(t, contents, "api:\n    path: ./api", relPath)
	assertContains(t, contents, "notifier:\n    path: ./notifier", relPath)
}

func TestDataTableKeysAndIndex(t *testing.T) {
	root := parseYAML(t, "infrastructure/data/serverless.yml")
	resources := mappingValue(t, mappingValue(t, root, "resources"), "Resources")
	props := mappingValue(t, mappingValue(t, resources, "BakeryTable"), "Properties")

	keys := mappingValue(t, props, "KeySchema")
	if len(keys.Content) != 2 {
		t.Fatalf("expected composite key, got %d parts", len(keys.Content))
	}
	if got := mappingValue(t, keys.Content[0], "AttributeName").Value; got != "PK" {
		t.Fatalf("unexpected hash key: %q", got)
	}
	if got := mappingValue(t, keys.Content[1], "AttributeName").Value; got != "SK" {
		t.Fatalf("unexpected range key: %q", got)
	}

	indexes := mappingValue(t, props, "GlobalSecondaryIndexes")
	if len(indexes.Content) != 1 {
		t.Fatalf("expected one GSI, got %d", len(indexes.Content))
	}
	gsiKeys := mappingValue(t, indexes.Content[0], "KeySchema")
	if got := mappingValue(t, gsiKeys.Content[0], "AttributeName").Value; got != "EntityType" {
		t.Fatalf("unexpected GSI hash key: %q", got)
	}
	if got := mappingValue(t, gsiKeys.Content[1], "AttributeName").Value; got != "CreatedAt" {
		t.Fatalf("unexpected GSI range key: %q", got)
	}

	stream := mappingValue(t, props, "StreamSpecification")
	if got := mappingValue(t, stream, "StreamViewType").Value; got != "NEW_IMAGE" {
		t.Fatalf("unexpected stream view type: %q", got)
	}
}

func TestNotifierStreamSubscription(t *testing.T) {
	root := parseYAML(t, "infrastructure/notifier/serverless.yml")
	if got := mappingValue(t, mappingValue(t, root, "provider"), "region").Value; got != "ap-southeast-1" {
		t.Fatalf("unexpected notifier region: %q", got)
	}

	fn := mappingValue(t, mappingValue(t, root, "functions"), "notifyNewOrder")
	if got := mappingValue(t, fn, "memorySize").Value; got != "256" {
		t.Fatalf("unexpected memory size: %q", got)
	}
	if got := mappingValue(t, fn, "timeout").Value; got != "60" {
		t.Fatalf("unexpected timeout: %q", got)
	}

	events := mappingValue(t, fn, "events")
	if len(events.Content) != 1 {
		t.Fatalf("expected a single event source, got %d", len(events.Content))
	}
	stream := mappingValue(t, events.Content[0], "stream")
	if got := mappingValue(t, stream, "type").Value; got != "dynamodb" {
		t.Fatalf("unexpected stream type: %q", got)
	}
	if got := mappingValue(t, stream, "arn").Value; got != "${cf:bakery-dev-data.TableStreamArn}" {
		t.Fatalf("unexpected stream arn: %q", got)
	}
	if got := mappingValue(t, stream, "functionResponseType").Value; got != "ReportBatchItemFailures" {
		t.Fatalf("notifier must report partial batch failures, got %q", got)
	}

	filters := mappingValue(t, stream, "filterPatterns")
	if len(filters.Content) != 1 {
		t.Fatalf("expected one filter pattern, got %d", len(filters.Content))
	}
	filter := filters.Content[0]
	if !sequenceHasScalar(mappingValue(t, filter, "eventName"), "INSERT") {
		t.Fatal("filter must only pass INSERT events")
	}
	entityType := mappingValue(t, mappingValue(t, mappingValue(t, filter, "dynamodb"), "NewImage"), "EntityType")
	if !sequenceHasScalar(mappingValue(t, entityType, "S"), "ORDER") {
		t.Fatal("filter must only pass ORDER items")
	}

	composeRoot := parseYAML(t, "infrastructure/serverless-compose.yml")
	services := mappingValue(t, composeRoot, "services")
	if !sequenceHasScalar(mappingValue(t, mappingValue(t, services, "notifier"), "dependsOn"), "data") {
		t.Fatal("notifier compose dependencies missing data")
	}
}
