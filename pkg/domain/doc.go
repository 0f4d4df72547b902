/*
Package domain contains the core domain models of the graficador design editor.

It defines the canonical shape tree that every editing operation mutates and that
every exporter reads. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Shape: A node of the design tree (leaf shape or group). Sibling order is z-order.
  - Design: An editing session snapshot (shape forest plus the active selection).
  - LifecycleHooks: Callbacks fired on edit and export events, used for logging and metrics.
*/
package domain
