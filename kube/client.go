// ABOUTME: Kubernetes clientset construction from kubeconfig or in-cluster config.
// ABOUTME: Resolves the kubeconfig path from an explicit override, KUBECONFIG, or the home default.
package kube

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Connect builds a clientset. The kubeconfig path is resolved from the
// explicit override, then the KUBECONFIG environment variable, then
// ~/.kube/config. When no usable kubeconfig file exists, the in-cluster
// config is tried.
func Connect(kubeconfigOverride string) (kubernetes.Interface, error) {
	kubeconfig := ""

	if home := homedir.HomeDir(); home != "" {
		kubeconfig = filepath.Join(home, ".kube", "config")
	}
	if k := os.Getenv("KUBECONFIG"); k != "" {
		kubeconfig = k
	}
	if kubeconfigOverride != "" {
		kubeconfig = kubeconfigOverride
	}

	if kubeconfig != "" {
		stat, err := os.Stat(kubeconfig)
		if os.IsNotExist(err) || (err == nil && stat.IsDir()) {
			kubeconfig = ""
		}
	}

	var config *rest.Config
	var err error
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("load kube config: %w", err)
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}
	return client, nil
}
