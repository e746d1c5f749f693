package assistant

// sourceSet acumula citações sem repetir URI, na ordem em que aparecem.
type sourceSet struct {
	seen map[string]struct{}
	list []Source
}

func (s *sourceSet) add(src ...Source) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, v := range src {
		if _, dup := s.seen[v.URI]; dup {
			continue
		}
		s.seen[v.URI] = struct{}{}
		s.list = append(s.list, v)
	}
}

// result devolve nil quando nenhuma citação foi vista.
func (s *sourceSet) result() []Source {
	if len(s.list) == 0 {
		return nil
	}
	return s.list
}
