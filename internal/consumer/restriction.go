package consumer

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Benny93/owlrdf-go/internal/owl"
	"github.com/Benny93/owlrdf-go/internal/rdf"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

// BuildFunc constructs the class expression of one restriction kind from the
// resolved property, cardinality and filler. n is owl.CardinalityUnset when
// the restriction carries no number.
type BuildFunc func(prop owl.ObjectPropertyExpression, n int, filler owl.ClassExpression) (owl.ClassExpression, error)

// DataBuildFunc is BuildFunc for restrictions on a data property. For
// Nominal shapes the literal reaches it as a single-value owl.DataOneOf.
type DataBuildFunc func(prop *owl.DataProperty, n int, filler owl.DataRange) (owl.ClassExpression, error)

// RestrictionShape describes one restriction kind. Resolving the property,
// the number and the filler is shared by every shape; only the predicates
// and Build differ.
type RestrictionShape struct {
	Name string

	// CardinalityPredicate and QualifiedCardinalityPredicate carry the
	// number. Both are empty for non-cardinality shapes.
	CardinalityPredicate          string
	QualifiedCardinalityPredicate string

	// FillerPredicate points at the filler class, or at the value for
	// Nominal shapes.
	FillerPredicate string

	// DataFillerPredicate points at the data range when it differs from
	// FillerPredicate, as owl:onDataRange does for cardinalities.
	DataFillerPredicate string

	// Nominal shapes take an individual as filler. It reaches Build wrapped
	// in a single-member owl.ObjectOneOf.
	Nominal bool

	Build BuildFunc

	// BuildData handles data properties. Shapes without it only apply to
	// object properties.
	BuildData DataBuildFunc
}

func (s *RestrictionShape) dataFiller() string {
	if s.DataFillerPredicate != "" {
		return s.DataFillerPredicate
	}
	return s.FillerPredicate
}

// IsCardinality reports whether the shape carries a number.
func (s *RestrictionShape) IsCardinality() bool {
	return s.CardinalityPredicate != "" || s.QualifiedCardinalityPredicate != ""
}

// triggers returns the predicates whose presence selects this shape.
func (s *RestrictionShape) triggers() []string {
	if s.IsCardinality() {
		return []string{s.CardinalityPredicate, s.QualifiedCardinalityPredicate}
	}
	return []string{s.FillerPredicate}
}

// DefaultShapes returns the existential, universal, has-value and
// min/max/exact cardinality shapes over v.
func DefaultShapes(v *vocab.Vocabulary) []*RestrictionShape {
	return []*RestrictionShape{
		{
			Name:            "some",
			FillerPredicate: v.SomeValuesFrom,
			Build: func(prop owl.ObjectPropertyExpression, _ int, filler owl.ClassExpression) (owl.ClassExpression, error) {
				return &owl.ObjectSomeValuesFrom{Property: prop, Filler: filler}, nil
			},
			BuildData: func(prop *owl.DataProperty, _ int, filler owl.DataRange) (owl.ClassExpression, error) {
				return &owl.DataSomeValuesFrom{Property: prop, Range: filler}, nil
			},
		},
		{
			Name:            "all",
			FillerPredicate: v.AllValuesFrom,
			Build: func(prop owl.ObjectPropertyExpression, _ int, filler owl.ClassExpression) (owl.ClassExpression, error) {
				return &owl.ObjectAllValuesFrom{Property: prop, Filler: filler}, nil
			},
			BuildData: func(prop *owl.DataProperty, _ int, filler owl.DataRange) (owl.ClassExpression, error) {
				return &owl.DataAllValuesFrom{Property: prop, Range: filler}, nil
			},
		},
		{
			Name:            "hasValue",
			FillerPredicate: v.HasValue,
			Nominal:         true,
			Build: func(prop owl.ObjectPropertyExpression, _ int, filler owl.ClassExpression) (owl.ClassExpression, error) {
				one, ok := filler.(*owl.ObjectOneOf)
				if !ok || len(one.Individuals) != 1 {
					return nil, fmt.Errorf("%w: hasValue needs exactly one individual", ErrUnresolvableConstruct)
				}
				return &owl.ObjectHasValue{Property: prop, Value: one.Individuals[0]}, nil
			},
			BuildData: func(prop *owl.DataProperty, _ int, filler owl.DataRange) (owl.ClassExpression, error) {
				one, ok := filler.(*owl.DataOneOf)
				if !ok || len(one.Values) != 1 {
					return nil, fmt.Errorf("%w: hasValue needs exactly one literal", ErrUnresolvableConstruct)
				}
				return &owl.DataHasValue{Property: prop, Value: one.Values[0]}, nil
			},
		},
		cardinalityShape("min", owl.MinCardinality, v.MinCardinality, v.MinQualifiedCardinality, v),
		cardinalityShape("max", owl.MaxCardinality, v.MaxCardinality, v.MaxQualifiedCardinality, v),
		cardinalityShape("exact", owl.ExactCardinality, v.Cardinality, v.QualifiedCardinality, v),
	}
}

func cardinalityShape(name string, kind owl.CardinalityKind, unqualified, qualified string, v *vocab.Vocabulary) *RestrictionShape {
	return &RestrictionShape{
		Name:                          name,
		CardinalityPredicate:          unqualified,
		QualifiedCardinalityPredicate: qualified,
		FillerPredicate:               v.OnClass,
		DataFillerPredicate:           v.OnDataRange,
		Build: func(prop owl.ObjectPropertyExpression, n int, filler owl.ClassExpression) (owl.ClassExpression, error) {
			return &owl.ObjectCardinality{Kind: kind, Property: prop, Cardinality: n, Filler: filler}, nil
		},
		BuildData: func(prop *owl.DataProperty, n int, filler owl.DataRange) (owl.ClassExpression, error) {
			return &owl.DataCardinality{Kind: kind, Property: prop, Cardinality: n, Range: filler}, nil
		},
	}
}

// selectShape returns the first shape whose trigger predicate is present on
// node, or nil.
func (c *Consumer) selectShape(node rdf.Term) *RestrictionShape {
	for _, s := range c.reg.shapes {
		for _, p := range s.triggers() {
			if p != "" && c.store.Has(node, p) {
				return s
			}
		}
	}
	return nil
}

// isRestrictionHead reports whether node was typed owl:Restriction or still
// carries an onProperty triple.
func (c *Consumer) isRestrictionHead(node rdf.Term) bool {
	if !node.IsBlank() {
		return false
	}
	if _, ok := c.restrictionHeads[node]; ok {
		return true
	}
	return c.store.Has(node, c.vocab.OnProperty)
}

// ClassFor returns the plain class reference for node. Blank nodes map to a
// class named "_:<label>" that is private to this parse.
func (c *Consumer) ClassFor(node rdf.Term) *owl.Class {
	if node.IsBlank() {
		if cls, ok := c.blankClasses[node]; ok {
			return cls
		}
		cls := &owl.Class{IRI: "_:" + node.Value}
		c.blankClasses[node] = cls
		return cls
	}
	if node.Value == c.vocab.Thing {
		return c.factory.Thing()
	}
	return c.factory.Class(node.Value)
}

// TranslateRestriction resolves node as a restriction of the given shape,
// consuming the triples it reads.
//
// A node without onProperty is not a restriction; the plain class reference
// is returned instead. A missing number yields owl.CardinalityUnset and a
// missing filler yields owl:Thing.
func (c *Consumer) TranslateRestriction(node rdf.Term, shape *RestrictionShape) (owl.ClassExpression, error) {
	propNode, ok := c.store.Consume(node, c.vocab.OnProperty)
	if !ok {
		return c.ClassFor(node), nil
	}
	if c.isDataRestriction(node, propNode, shape) {
		return c.translateDataRestriction(node, propNode, shape)
	}
	prop, err := c.translateProperty(node, propNode)
	if err != nil {
		return nil, err
	}

	n := owl.CardinalityUnset
	if shape.IsCardinality() {
		if n, err = c.translateCardinality(node, shape); err != nil {
			return nil, err
		}
	}

	filler, err := c.translateFiller(node, shape)
	if err != nil {
		return nil, err
	}

	ce, err := shape.Build(prop, n, filler)
	if err != nil {
		return nil, &ConstructError{Node: node, Err: err}
	}
	return ce, nil
}

// translateCardinality reads the unqualified number first and the qualified
// one second. When both are present the unqualified one wins and the other
// is consumed as well.
func (c *Consumer) translateCardinality(node rdf.Term, shape *RestrictionShape) (int, error) {
	var (
		lit  rdf.Term
		pred string
		ok   bool
	)
	for _, p := range []string{shape.CardinalityPredicate, shape.QualifiedCardinalityPredicate} {
		if p == "" {
			continue
		}
		o, found := c.store.Consume(node, p)
		if !found {
			continue
		}
		if ok {
			c.logger.Debug("ignoring second cardinality",
				slog.String("node", node.String()),
				slog.String("kept", pred),
				slog.String("ignored", p))
			continue
		}
		lit, pred, ok = o, p, true
	}
	if !ok {
		return owl.CardinalityUnset, nil
	}

	if !lit.IsLiteral() {
		return 0, &MalformedLiteralError{Node: node, Predicate: pred, Lexical: lit.String(), Err: errNotLiteral}
	}
	n, err := strconv.ParseUint(strings.TrimSpace(lit.Value), 10, 31)
	if err != nil {
		return 0, &MalformedLiteralError{Node: node, Predicate: pred, Lexical: lit.Value, Err: err}
	}
	return int(n), nil
}

func (c *Consumer) translateFiller(node rdf.Term, shape *RestrictionShape) (owl.ClassExpression, error) {
	o, ok := c.store.Consume(node, shape.FillerPredicate)
	if !ok {
		return c.factory.Thing(), nil
	}
	if shape.Nominal {
		ind, err := c.translateIndividual(node, o)
		if err != nil {
			return nil, err
		}
		return &owl.ObjectOneOf{Individuals: []owl.Individual{ind}}, nil
	}
	return c.TranslateClassExpression(o)
}

// translateProperty maps a named property or a blank owl:inverseOf node to
// a property expression. Failures are reported against owner.
func (c *Consumer) translateProperty(owner, node rdf.Term) (owl.ObjectPropertyExpression, error) {
	switch {
	case node.IsIRI():
		return c.factory.ObjectProperty(node.Value), nil
	case node.IsBlank():
		inv, ok := c.store.Consume(node, c.vocab.InverseOf)
		if !ok || !inv.IsIRI() {
			return nil, unresolvable(owner, "property expression %s without a named inverse", node)
		}
		return &owl.ObjectInverseOf{Property: c.factory.ObjectProperty(inv.Value)}, nil
	default:
		return nil, unresolvable(owner, "literal %s used as a property", node)
	}
}

// translateIndividual maps node to an individual. Failures are reported
// against owner.
func (c *Consumer) translateIndividual(owner, node rdf.Term) (owl.Individual, error) {
	switch {
	case node.IsIRI():
		return c.factory.NamedIndividual(node.Value), nil
	case node.IsBlank():
		if ind, ok := c.blankIndividuals[node]; ok {
			return ind, nil
		}
		ind := &owl.AnonymousIndividual{NodeID: node.Value}
		c.blankIndividuals[node] = ind
		return ind, nil
	default:
		return nil, unresolvable(owner, "literal %s used as an individual", node)
	}
}

// isDataRestriction reports whether the restriction on propNode constrains a
// data property. A declared kind decides; for an undeclared property a
// literal value, an owl:onDataRange triple or a datatype filler does.
func (c *Consumer) isDataRestriction(node, propNode rdf.Term, shape *RestrictionShape) bool {
	if shape.BuildData == nil || !propNode.IsIRI() {
		return false
	}
	switch c.propertyKinds[propNode.Value] {
	case owl.EntityDataProperty:
		return true
	case owl.EntityObjectProperty:
		return false
	}
	if shape.DataFillerPredicate != "" && c.store.Has(node, shape.DataFillerPredicate) {
		return true
	}
	o, ok := c.store.Get(node, shape.FillerPredicate)
	if !ok {
		return false
	}
	return o.IsLiteral() || (o.IsIRI() && c.isDatatype(o.Value))
}

func (c *Consumer) isDatatype(iri string) bool {
	if iri == owl.LiteralIRI || strings.HasPrefix(iri, vocab.XSD) {
		return true
	}
	_, ok := c.datatypes[iri]
	return ok
}

// translateDataRestriction is TranslateRestriction for a data property. The
// onProperty triple has already been consumed.
func (c *Consumer) translateDataRestriction(node, propNode rdf.Term, shape *RestrictionShape) (owl.ClassExpression, error) {
	prop := c.factory.DataProperty(propNode.Value)

	n := owl.CardinalityUnset
	if shape.IsCardinality() {
		var err error
		if n, err = c.translateCardinality(node, shape); err != nil {
			return nil, err
		}
	}

	filler, err := c.translateDataRange(node, shape)
	if err != nil {
		return nil, err
	}

	ce, err := shape.BuildData(prop, n, filler)
	if err != nil {
		return nil, &ConstructError{Node: node, Err: err}
	}
	return ce, nil
}

// translateDataRange reads the data range of node. A missing range yields
// rdfs:Literal.
func (c *Consumer) translateDataRange(node rdf.Term, shape *RestrictionShape) (owl.DataRange, error) {
	o, ok := c.store.Consume(node, shape.dataFiller())
	if !ok && shape.DataFillerPredicate != "" {
		// A qualified data cardinality written with owl:onClass.
		o, ok = c.store.Consume(node, shape.FillerPredicate)
	}
	if !ok {
		return c.factory.Datatype(owl.LiteralIRI), nil
	}
	if shape.Nominal {
		if !o.IsLiteral() {
			return nil, unresolvable(node, "data value %s is not a literal", o)
		}
		return &owl.DataOneOf{Values: []string{o.String()}}, nil
	}
	if !o.IsIRI() {
		return nil, unresolvable(node, "data range %s is not a named datatype", o)
	}
	return c.factory.Datatype(o.Value), nil
}

// TranslateClassExpression resolves node to a class expression. Named nodes
// map to classes. Blank nodes are translated once and cached: restriction
// heads through their shape, boolean nodes through their member list, and
// anything else as a plain class reference.
func (c *Consumer) TranslateClassExpression(node rdf.Term) (owl.ClassExpression, error) {
	if node.IsIRI() {
		return c.ClassFor(node), nil
	}
	if !node.IsBlank() {
		return nil, unresolvable(node, "literal used as a class expression")
	}
	if ce, ok := c.expressions[node]; ok {
		return ce, nil
	}
	if _, ok := c.failed[node]; ok {
		return nil, errReported
	}
	if _, ok := c.visiting[node]; ok {
		return nil, &ConstructError{Node: node, Err: ErrCyclicReference}
	}
	if c.depth >= c.maxDepth {
		return nil, &ConstructError{Node: node, Err: ErrDepthExceeded}
	}

	c.visiting[node] = struct{}{}
	c.depth++
	ce, err := c.translateAnonymous(node)
	c.depth--
	delete(c.visiting, node)

	if err != nil {
		c.failed[node] = err
		return nil, err
	}
	c.expressions[node] = ce
	return ce, nil
}

func (c *Consumer) translateAnonymous(node rdf.Term) (owl.ClassExpression, error) {
	if c.isRestrictionHead(node) {
		shape := c.selectShape(node)
		if shape != nil {
			return c.TranslateRestriction(node, shape)
		}
		if c.store.Has(node, c.vocab.OnProperty) {
			return nil, unresolvable(node, "restriction on a property without a filler or cardinality")
		}
		return c.ClassFor(node), nil
	}

	for _, p := range []string{c.vocab.IntersectionOf, c.vocab.UnionOf, c.vocab.ComplementOf, c.vocab.OneOf} {
		if o, ok := c.store.Consume(node, p); ok {
			return c.booleanExpression(node, p, o)
		}
	}
	return c.ClassFor(node), nil
}

// booleanExpression builds the boolean class expression whose operand (or
// operand list) is o. Failures are reported against owner.
func (c *Consumer) booleanExpression(owner rdf.Term, predicate string, o rdf.Term) (owl.ClassExpression, error) {
	switch predicate {
	case c.vocab.ComplementOf:
		operand, err := c.TranslateClassExpression(o)
		if err != nil {
			return nil, err
		}
		return &owl.ObjectComplementOf{Operand: operand}, nil

	case c.vocab.OneOf:
		members, err := c.translateList(o)
		if err != nil {
			return nil, err
		}
		inds := make([]owl.Individual, 0, len(members))
		for _, m := range members {
			ind, err := c.translateIndividual(owner, m)
			if err != nil {
				return nil, err
			}
			inds = append(inds, ind)
		}
		return &owl.ObjectOneOf{Individuals: inds}, nil
	}

	members, err := c.translateList(o)
	if err != nil {
		return nil, err
	}
	operands := make([]owl.ClassExpression, 0, len(members))
	for _, m := range members {
		ce, err := c.TranslateClassExpression(m)
		if err != nil {
			return nil, err
		}
		operands = append(operands, ce)
	}
	if predicate == c.vocab.UnionOf {
		return &owl.ObjectUnionOf{Operands: operands}, nil
	}
	return &owl.ObjectIntersectionOf{Operands: operands}, nil
}

// translateList walks an rdf:first/rdf:rest chain, consuming its cells.
func (c *Consumer) translateList(head rdf.Term) ([]rdf.Term, error) {
	var members []rdf.Term
	seen := make(map[rdf.Term]struct{})
	for cell := head; !(cell.IsIRI() && cell.Value == c.vocab.RDFNil); {
		if !cell.IsNode() {
			return nil, unresolvable(head, "list cell %s is a literal", cell)
		}
		if _, ok := seen[cell]; ok {
			return nil, &ConstructError{Node: head, Err: ErrCyclicReference}
		}
		seen[cell] = struct{}{}

		first, ok := c.store.Consume(cell, c.vocab.RDFFirst)
		if !ok {
			return nil, unresolvable(head, "list cell %s has no rdf:first", cell)
		}
		members = append(members, first)

		rest, ok := c.store.Consume(cell, c.vocab.RDFRest)
		if !ok {
			return nil, unresolvable(head, "list cell %s has no rdf:rest", cell)
		}
		cell = rest
	}
	return members, nil
}
