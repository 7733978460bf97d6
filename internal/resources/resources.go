// Package resources holds the reference documents and prompt templates
// served by the HTTP API and the MCP server.
package resources

import "fmt"

const (
	SchemaURI   = "c4://schema"
	ExamplesURI = "c4://examples"
)

// Resource is a static reference document
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
	Text        string `json:"text"`
}

// Schema is the DSL syntax reference
var Schema = Resource{
	URI:         SchemaURI,
	Name:        "C4 Structurizr DSL Schema",
	Description: "Complete syntax reference for the C4 Structurizr DSL",
	MIMEType:    "text/markdown",
	Text: "# C4 Structurizr DSL Schema\n" +
		"\n" +
		"## Basic Structure\n" +
		"```\n" +
		"workspace {\n" +
		"    model {\n" +
		"        // Elements and relationships\n" +
		"    }\n" +
		"    views {\n" +
		"        // View definitions\n" +
		"    }\n" +
		"}\n" +
		"```\n" +
		"\n" +
		"## Elements\n" +
		"- `person <identifier> <name> [description] [tags]`\n" +
		"- `softwareSystem <identifier> <name> [description] [tags]`\n" +
		"- `container <identifier> <name> [description] [technology] [tags]`\n" +
		"- `component <identifier> <name> [description] [technology] [tags]`\n" +
		"\n" +
		"## Relationships\n" +
		"- `<source> -> <destination> [description] [technology] [tags]`\n" +
		"\n" +
		"## Views\n" +
		"- `systemLandscape [key] { ... }`\n" +
		"- `systemContext <softwareSystemIdentifier> [key] { ... }`\n" +
		"- `container <softwareSystemIdentifier> [key] { ... }`\n" +
		"- `component <containerIdentifier> [key] { ... }`",
}

// Examples is a complete sample workspace
var Examples = Resource{
	URI:         ExamplesURI,
	Name:        "C4 Model Examples",
	Description: "Collection of common C4 model patterns and templates",
	MIMEType:    "text/plain",
	Text: `workspace "Example System" "An example software architecture" {
    model {
        user = person "User" "A user of the system"

        softwareSystem = softwareSystem "Software System" "Description" {
            webapp = container "Web Application" "Description" "Technology"
            database = container "Database" "Description" "Technology"

            webapp -> database "Reads from and writes to"
        }

        user -> softwareSystem "Uses"
    }

    views {
        systemContext softwareSystem {
            include *
            autoLayout
        }

        container softwareSystem {
            include *
            autoLayout
        }
    }
}`,
}

// All lists every resource in a stable order
func All() []Resource {
	return []Resource{Schema, Examples}
}

// Lookup returns the resource for uri
func Lookup(uri string) (Resource, bool) {
	for _, r := range All() {
		if r.URI == uri {
			return r, true
		}
	}
	return Resource{}, false
}

// CreateModelPrompt is the opening message of the model creation assistant.
// Empty arguments fall back to "simple" and "My System".
func CreateModelPrompt(modelType, domain string) string {
	if modelType == "" {
		modelType = "simple"
	}
	if domain == "" {
		domain = "My System"
	}
	return fmt.Sprintf("I want to create a %s C4 architecture model for \"%s\". "+
		"Please help me create a comprehensive DSL model by asking me relevant questions "+
		"about the system architecture, users, external systems, and internal components. "+
		"Guide me through the process step by step.", modelType, domain)
}

// ImproveArchitecturePrompt asks for review of an existing model. An empty
// focus falls back to "overall quality".
func ImproveArchitecturePrompt(currentModel, focus string) (string, error) {
	if currentModel == "" {
		return "", fmt.Errorf("current_model argument is required for improve-architecture prompt")
	}
	if focus == "" {
		focus = "overall quality"
	}
	return fmt.Sprintf("Please analyze my C4 architecture model and provide suggestions for improvement, "+
		"focusing on %s. Here's my current model:\n\n```\n%s\n```\n\n"+
		"Please provide specific, actionable recommendations to improve the architecture.", focus, currentModel), nil
}
