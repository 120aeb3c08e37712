// Package echobase builds the two reports handed to Rebel Alliance Intelligence:
//
//   - a list of likely uninhabited planets where a new rebel base could be
//     situated if Imperial forces discover the location of Echo Base.
//   - the Echo Base document enriched with catalog data, including an
//     evacuation plan of base personnel with passenger assignments for
//     Princess Leia and C-3PO aboard the transport Bright Hope, escorted by
//     two X-wing starfighters piloted by Luke Skywalker (with R2-D2) and
//     Wedge Antilles (with R5-D4).
package echobase
