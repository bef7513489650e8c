// Package gw builds a genealogy graph from GeneWeb .gw and .gwplus files.
//
// The pipeline is
//
//	bytes ─▶ decode ─▶ parser (blocks) ─▶ Builder ─▶ Validate ─▶ *Genealogy
//
// Parse picks between two drivers. The buffered driver decodes the whole
// input and parses it in one pass. The streaming driver (Stream) reads one
// chunk of lines at a time, from one block keyword to the next, so memory is
// bounded by the largest block. StreamAuto streams inputs of at least
// Options.StreamingThresholdBytes; both drivers produce the same genealogy.
//
// # Identity
//
// A person is identified by surname, first name and occurrence number, as
// written ("DUPONT Jean.1"). Every reference to the same key resolves to
// the same *Person, wherever it appears: spouse, child, witness, relation
// target or subject of a notes block. Later references fill fields that
// are still empty and never overwrite; a conflicting value is reported as a
// ParseWarning.
//
// # Errors
//
// Diagnostics go to a diag.Collector. In graceful mode (the default) syntax
// and semantic errors mark the entities they concern invalid and the parse
// goes on; the returned Genealogy has Valid set to false and lists the
// errors in ValidationErrors. In strict mode the first ERROR stops the
// parse and no Genealogy is returned. Encoding errors are CRITICAL and stop
// the parse in both modes.
//
// # Usage
//
//	g, c, err := gw.ParseFile("family.gw", gw.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	if !g.Valid {
//		fmt.Print(c.Report())
//	}
//	for _, id := range g.PersonIDs() {
//		p := g.Person(id)
//		fmt.Println(p.FullName(), p.Birth.Date)
//	}
package gw
