// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [FrameSource]: pushes decoded frames (demux + video decode)
//   - [FrameHandler]: receives the source's configuration and frame events
//   - [Kernel]: classifies every tile of a frame in one data-parallel pass
//   - [OutputSink]: persists the reassembled payload stream
//   - [ReportSink]: persists the run report
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with ffmpeg,
// image files, fsnotify, zerolog and so on.
package ports
