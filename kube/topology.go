// ABOUTME: Kubernetes cluster topology snapshot: namespaces, deployments, services, and pods.
// ABOUTME: Renders the topology as flowchart source with one subgraph per namespace.
package kube

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
)

// Workload is a deployment together with the pods its selector matches.
type Workload struct {
	Name string
	Pods []string
}

// Service is a cluster service together with the pods its selector matches.
type Service struct {
	Name string
	Pods []string
}

// NamespaceTopology holds the resources of one namespace.
type NamespaceTopology struct {
	Name        string
	Deployments []Workload
	Services    []Service
	Pods        []string
}

// Topology is a point-in-time view of the cluster resources the dashboard
// visualizes.
type Topology struct {
	Namespaces []NamespaceTopology
}

// Snapshot lists deployments, services, and pods in the given namespaces and
// matches selectors to pods. With no namespaces given, all namespaces are
// listed. The client is an interface so tests can use the fake clientset.
func Snapshot(ctx context.Context, client kubernetes.Interface, namespaces []string) (*Topology, error) {
	if len(namespaces) == 0 {
		nsList, err := client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("list namespaces: %w", err)
		}
		for _, ns := range nsList.Items {
			namespaces = append(namespaces, ns.Name)
		}
	}

	topo := &Topology{}
	for _, ns := range namespaces {
		nt, err := snapshotNamespace(ctx, client, ns)
		if err != nil {
			return nil, err
		}
		topo.Namespaces = append(topo.Namespaces, *nt)
	}
	return topo, nil
}

func snapshotNamespace(ctx context.Context, client kubernetes.Interface, ns string) (*NamespaceTopology, error) {
	nt := &NamespaceTopology{Name: ns}

	pods, err := client.CoreV1().Pods(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list pods in %s: %w", ns, err)
	}
	podLabels := make(map[string]labels.Set, len(pods.Items))
	for _, pod := range pods.Items {
		nt.Pods = append(nt.Pods, pod.Name)
		podLabels[pod.Name] = pod.Labels
	}

	deps, err := client.AppsV1().Deployments(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list deployments in %s: %w", ns, err)
	}
	for _, dep := range deps.Items {
		w := Workload{Name: dep.Name}
		if dep.Spec.Selector != nil {
			sel, err := metav1.LabelSelectorAsSelector(dep.Spec.Selector)
			if err == nil {
				w.Pods = matchPods(sel, podLabels, nt.Pods)
			}
		}
		nt.Deployments = append(nt.Deployments, w)
	}

	svcs, err := client.CoreV1().Services(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list services in %s: %w", ns, err)
	}
	for _, svc := range svcs.Items {
		s := Service{Name: svc.Name}
		if len(svc.Spec.Selector) > 0 {
			sel := labels.SelectorFromSet(svc.Spec.Selector)
			s.Pods = matchPods(sel, podLabels, nt.Pods)
		}
		nt.Services = append(nt.Services, s)
	}

	return nt, nil
}

// matchPods returns pod names whose labels satisfy the selector, in the
// stable order of the pod listing.
func matchPods(sel labels.Selector, podLabels map[string]labels.Set, order []string) []string {
	var matched []string
	for _, name := range order {
		if sel.Matches(podLabels[name]) {
			matched = append(matched, name)
		}
	}
	return matched
}

var idCleanRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// resourceID derives a flowchart-safe node identifier from a resource kind
// prefix and name.
func resourceID(prefix, ns, name string) string {
	return prefix + "_" + strings.ToLower(idCleanRe.ReplaceAllString(ns+"_"+name, "_"))
}

// Flowchart renders the topology as flowchart diagram source with one
// subgraph per namespace. Deployments and services point at the pods their
// selectors match; pods without a matching workload still appear as nodes.
func (t *Topology) Flowchart() string {
	b := NewBuilder(TopDown)

	for _, ns := range t.Namespaces {
		ns := ns
		nsID := "ns_" + strings.ToLower(idCleanRe.ReplaceAllString(ns.Name, "_"))
		b.AddSubgraph(nsID, ns.Name, func(sg *Builder) {
			for _, pod := range ns.Pods {
				sg.AddNode(resourceID("pod", ns.Name, pod), pod, ShapeRound)
			}
			for _, dep := range ns.Deployments {
				depID := resourceID("deploy", ns.Name, dep.Name)
				sg.AddNode(depID, dep.Name+" (Deployment)", ShapeRect)
				for _, pod := range dep.Pods {
					sg.AddEdge(depID, resourceID("pod", ns.Name, pod), "manages", EdgeSolid)
				}
			}
			for _, svc := range ns.Services {
				svcID := resourceID("svc", ns.Name, svc.Name)
				sg.AddNode(svcID, svc.Name+" (Service)", ShapeStadium)
				for _, pod := range svc.Pods {
					sg.AddEdge(svcID, resourceID("pod", ns.Name, pod), "routes", EdgeDotted)
				}
			}
		})
	}

	return b.Render()
}
