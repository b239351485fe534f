package cmmn11

import (
	"encoding/xml"
	"fmt"
)

// ResolveReferences links plan items to their definitions and human tasks to
// their performer roles. References that cannot be resolved are left unset,
// reporting them is up to the consumer of the model.
func (definitions *TDefinitions) ResolveReferences() error {
	for i := range definitions.Cases {
		if err := definitions.Cases[i].ResolveReferences(); err != nil {
			return fmt.Errorf("failed to resolve references of case [%s]: %w", definitions.Cases[i].Id, err)
		}
	}
	return nil
}

func (c *TCase) ResolveReferences() error {
	c.definitions = make(map[string]PlanItemDefinition)
	c.roles = make(map[string]*TRole)
	for i := range c.CaseRoles.Roles {
		role := &c.CaseRoles.Roles[i]
		c.roles[role.Id] = role
	}
	if c.CasePlanModel == nil {
		return nil
	}
	if err := collectDefinitions(c.CasePlanModel, c.definitions); err != nil {
		return err
	}
	c.resolveStage(c.CasePlanModel)
	return nil
}

func (definitions *TDefinitions) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	// Create an alias to avoid recursion
	type Alias TDefinitions
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(definitions),
	}

	if err := d.DecodeElement(aux, &start); err != nil {
		return fmt.Errorf("failed to unmarshal TDefinitions: %w", err)
	}

	if err := definitions.ResolveReferences(); err != nil {
		return fmt.Errorf("failed to resolve references: %w", err)
	}
	return nil
}

func collectDefinitions(stage *TStage, refs map[string]PlanItemDefinition) error {
	add := func(def PlanItemDefinition) error {
		if def.GetId() == "" {
			return nil
		}
		if _, ok := refs[def.GetId()]; ok {
			return fmt.Errorf("duplicate plan item definition with ID [%s]", def.GetId())
		}
		refs[def.GetId()] = def
		return nil
	}
	var err error
	for i := range stage.Tasks {
		err = add(&stage.Tasks[i])
		if err != nil {
			return err
		}
	}
	for i := range stage.HumanTasks {
		err = add(&stage.HumanTasks[i])
		if err != nil {
			return err
		}
	}
	for i := range stage.CaseTasks {
		err = add(&stage.CaseTasks[i])
		if err != nil {
			return err
		}
	}
	for i := range stage.ProcessTasks {
		err = add(&stage.ProcessTasks[i])
		if err != nil {
			return err
		}
	}
	for i := range stage.DecisionTasks {
		err = add(&stage.DecisionTasks[i])
		if err != nil {
			return err
		}
	}
	for i := range stage.TimerEventListeners {
		err = add(&stage.TimerEventListeners[i])
		if err != nil {
			return err
		}
	}
	for i := range stage.Milestones {
		err = add(&stage.Milestones[i])
		if err != nil {
			return err
		}
	}
	for i := range stage.Stages {
		err = add(&stage.Stages[i])
		if err != nil {
			return err
		}
		err = collectDefinitions(&stage.Stages[i], refs)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *TCase) resolveStage(stage *TStage) {
	for i := range stage.PlanItems {
		stage.PlanItems[i].definition = c.definitions[stage.PlanItems[i].DefinitionRef]
	}
	if stage.PlanningTable != nil {
		c.resolvePlanningTable(stage.PlanningTable)
	}
	for i := range stage.HumanTasks {
		task := &stage.HumanTasks[i]
		if task.PerformerRef != "" {
			task.performer = c.roles[task.PerformerRef]
		}
	}
	for i := range stage.Stages {
		c.resolveStage(&stage.Stages[i])
	}
}

func (c *TCase) resolvePlanningTable(table *TPlanningTable) {
	for i := range table.DiscretionaryItems {
		table.DiscretionaryItems[i].definition = c.definitions[table.DiscretionaryItems[i].DefinitionRef]
	}
	for i := range table.PlanningTables {
		c.resolvePlanningTable(&table.PlanningTables[i])
	}
}
