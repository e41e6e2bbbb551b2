package packaging

import (
	"bytes"
	"encoding/xml"
	"strings"
	"text/template"
)

var pomTemplate = template.Must(template.New("pom").Funcs(template.FuncMap{
	"xml": escapeXML,
}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<project xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd" xmlns="http://maven.apache.org/POM/4.0.0"
    xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <modelVersion>4.0.0</modelVersion>
  <groupId>{{ xml .Group }}</groupId>
  <artifactId>{{ xml .ArtifactID }}</artifactId>
  <version>{{ xml .Version }}</version>
</project>
`))

// POM renders the minimal Maven descriptor for the coordinates
func POM(c Coordinates) ([]byte, error) {
	var buf bytes.Buffer
	if err := pomTemplate.Execute(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escapeXML(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
