package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestEncodeDocumentRoundTrips(t *testing.T) {
	raw := []byte("%PDF-1.4\x00\xff binary")
	doc := EncodeDocument(raw, "application/pdf")

	if doc.MediaType != "application/pdf" {
		t.Fatalf("unexpected media type %q", doc.MediaType)
	}
	decoded, err := base64.StdEncoding.DecodeString(doc.Data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Fatalf("decoded bytes differ from input")
	}
}

func TestPromptTemplateListsSchemaFields(t *testing.T) {
	prompt, ok := PromptTemplate(DefaultPromptVersion)
	if !ok {
		t.Fatalf("default prompt version not recognized")
	}
	fields := []string{
		"employeeName", "employeeJobTitle", "leaveStartDate", "leaveEndDate",
		"leaveType", "healthConditionDescription", "healthcareProviderName",
		"healthcareProviderPhone", "isFormSigned", "signatureDate",
		"estimatedLeaveDuration", "complianceFlags",
	}
	for _, f := range fields {
		if !strings.Contains(prompt, `"`+f+`"`) {
			t.Fatalf("prompt missing field %s", f)
		}
	}
	if !strings.Contains(prompt, "YYYY-MM-DD") {
		t.Fatalf("prompt missing date format rule")
	}
}

func TestPromptTemplateUnknownVersionFallsBack(t *testing.T) {
	prompt, ok := PromptTemplate("v9")
	if ok {
		t.Fatalf("expected unknown version to be reported")
	}
	if prompt == "" {
		t.Fatalf("expected fallback prompt")
	}
}

func TestPlaceholderClientFails(t *testing.T) {
	_, err := PlaceholderClient{}.Extract(context.Background(), Document{}, "prompt")
	if !errors.Is(err, ErrExternalService) || !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected external service + not configured error, got %v", err)
	}
}
