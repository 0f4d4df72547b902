/*
Package ports defines the driven ports (interfaces) for graficador.

These interfaces decouple the editing core from external implementations, allowing
designs to live in memory, on disk or in Redis without the session manager
noticing.

# Key Interfaces

  - DesignStore: Responsible for persisting and loading designs.
  - DistributedLocker: Provides distributed locking for concurrent access to a design.
*/
package ports
