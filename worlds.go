package universalis

import "context"

// GetWorlds fetches the full world directory. Worlds returned here carry
// no datacenter back-reference; use GetDataCenters for the full graph.
func (c *Client) GetWorlds(ctx context.Context) ([]World, error) {
	var entries []worldEntry
	if err := c.get(ctx, "/worlds", nil, &entries); err != nil {
		return nil, err
	}

	worlds := make([]World, 0, len(entries))
	for _, w := range entries {
		worlds = append(worlds, World{ID: w.ID, Name: w.Name})
	}
	return worlds, nil
}

// GetDataCenters fetches the full datacenter directory with member
// worlds resolved and back-references wired.
func (c *Client) GetDataCenters(ctx context.Context) ([]DataCenter, error) {
	var dcEntries []dataCenterEntry
	if err := c.get(ctx, "/data-centers", nil, &dcEntries); err != nil {
		return nil, err
	}

	var worldEntries []worldEntry
	if err := c.get(ctx, "/worlds", nil, &worldEntries); err != nil {
		return nil, err
	}

	return buildDataCenters(dcEntries, worldEntries), nil
}

// buildDataCenters reconstructs the bidirectional datacenter/world graph
// from the two independently fetched flat lists. Member ids with no
// matching world are dropped: the two endpoints are uploaded separately
// and drift out of sync. A world already claimed by an earlier
// datacenter is not claimed again, so each world belongs to at most one.
func buildDataCenters(dcEntries []dataCenterEntry, worldEntries []worldEntry) []DataCenter {
	worlds := make(map[int]World, len(worldEntries))
	for _, w := range worldEntries {
		worlds[w.ID] = World{ID: w.ID, Name: w.Name}
	}

	claimed := make(map[int]bool, len(worldEntries))
	datacenters := make([]DataCenter, 0, len(dcEntries))
	for _, dc := range dcEntries {
		members := make([]World, 0, len(dc.Worlds))
		for _, id := range dc.Worlds {
			w, ok := worlds[id]
			if !ok || claimed[id] {
				continue
			}
			claimed[id] = true
			w.DataCenter = dc.Name
			members = append(members, w)
		}
		datacenters = append(datacenters, DataCenter{
			Name:   dc.Name,
			Region: dc.Region,
			Worlds: members,
		})
	}

	return datacenters
}
