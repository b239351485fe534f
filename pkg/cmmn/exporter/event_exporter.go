// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package exporter

type EventExporter interface {
	NewCaseDefinitionEvent(event *CaseDefinitionEvent)
}

type Intent string

const (
	Deployed  Intent = "DEPLOYED"
	Unchanged Intent = "UNCHANGED"
)

type CaseDefinitionEvent struct {
	CaseId       string
	Key          int64
	Version      int32
	XmlData      []byte
	ResourceName string
	Checksum     string
	Intent       Intent
}
