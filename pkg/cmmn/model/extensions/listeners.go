// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package extensions

import "strings"

// TField injects a value into a class or delegate expression listener.
// The value may be given as one of the attributes or as a nested element.
type TField struct {
	Name           string  `xml:"name,attr"`
	ExpressionAttr *string `xml:"expression,attr"`
	StringValue    *string `xml:"stringValue,attr"`
	Expression     *string `xml:"expression"`
	String         *string `xml:"string"`
}

type TScript struct {
	ScriptFormat string `xml:"scriptFormat,attr"`
	Resource     string `xml:"resource,attr"`
	Source       string `xml:",chardata"`
}

func (s TScript) GetSource() string {
	return strings.TrimSpace(s.Source)
}

// TListener is the shape shared by case execution, variable and task listeners.
type TListener struct {
	Event              string   `xml:"event,attr"`
	Class              string   `xml:"class,attr"`
	Expression         string   `xml:"expression,attr"`
	DelegateExpression string   `xml:"delegateExpression,attr"`
	Fields             []TField `xml:"field"`
	Script             *TScript `xml:"script"`
}

// IsWildcard reports whether the listener subscribes to every applicable event.
func (l TListener) IsWildcard() bool {
	return strings.TrimSpace(l.Event) == ""
}

type TCaseExecutionListener struct {
	TListener
}

type TVariableListener struct {
	TListener
}

type TTaskListener struct {
	TListener
}
