/*
Package graficador is a shape-tree design editor that scaffolds Angular and Flutter projects.

A design is an ordered forest of shapes. Position in a sibling list is z-order:
later siblings are drawn on top. Groups nest shapes without changing their
absolute coordinates. Exporting flattens the tree into render order and feeds
it through a target pipeline that produces a complete project file tree, which
can then be zipped.

# Usage

	svc := graficador.New(
		graficador.WithLogger(logger),
		graficador.WithMetrics(prometheus.DefaultRegisterer),
	)

	ctx := context.Background()
	if _, err := svc.CreateDesign(ctx, "landing", "Landing page"); err != nil {
		log.Fatal(err)
	}

	_, err := svc.Edit(ctx, "landing", func(ed *editor.Editor) error {
		_, err := ed.InsertTemplate(ctx, "login")
		return err
	})
	if err != nil {
		log.Fatal(err)
	}

	f, _ := os.Create("landing.zip")
	defer f.Close()
	if _, err := svc.ExportArchive(ctx, f, "landing", "angular", "landing"); err != nil {
		log.Fatal(err)
	}

# Packages

  - pkg/shapetree: z-order and grouping engine (pure functions over the forest).
  - pkg/editor: stateful editing of one design (selection, ids, templates, images).
  - pkg/export: shared export pipeline; pkg/export/angular and pkg/export/flutter are its targets.
  - pkg/archive: deterministic zip of an exported file tree.
  - pkg/session: per-design locking over a ports.DesignStore.
  - pkg/adapters: memory, file and redis stores; HTTP and MCP front ends.
*/
package graficador
